/*
 * nonbonded.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package potential

import "math"

//Particle holds the nonbonded parameters of one atom.
type Particle struct {
	Charge  float64 //e
	Sigma   float64 //nm
	Epsilon float64 //kJ/mol
}

//Exception replaces the default interaction between a pair of atoms. A zero ChargeProd and
//Epsilon excludes the pair.
type Exception struct {
	Atoms      [2]int
	ChargeProd float64 //e^2
	Sigma      float64 //nm
	Epsilon    float64 //kJ/mol
}

//NonbondedForce is a Lennard-Jones plus Coulomb force over all the pairs of particles, without
//cutoff. Particle parameters are combined with the Lorentz-Berthelot rules; pairs with an
//exception use the exception parameters instead.
type NonbondedForce struct {
	Tag
	Particles  []Particle
	Exceptions []Exception
}

//NewNonbondedForce returns an empty nonbonded force for the given handler.
func NewNonbondedForce(handler string) *NonbondedForce {
	return &NonbondedForce{Tag: Tag{handler: handler}}
}

//AddParticle adds a particle and returns its index.
func (F *NonbondedForce) AddParticle(charge, sigma, epsilon float64) int {
	F.Particles = append(F.Particles, Particle{charge, sigma, epsilon})
	return len(F.Particles) - 1
}

//AddException adds an exception for the pair i, j and returns its index.
func (F *NonbondedForce) AddException(i, j int, chargeProd, sigma, epsilon float64) int {
	F.Exceptions = append(F.Exceptions, Exception{[2]int{i, j}, chargeProd, sigma, epsilon})
	return len(F.Exceptions) - 1
}

//NumTerms returns the number of particles plus the number of exceptions.
func (F *NonbondedForce) NumTerms() int { return len(F.Particles) + len(F.Exceptions) }

func (F *NonbondedForce) Copy() Force {
	r := *F
	r.Particles = append([]Particle(nil), F.Particles...)
	r.Exceptions = append([]Exception(nil), F.Exceptions...)
	return &r
}

//ZeroCharges sets to zero the charge of every particle and the charge product of every exception.
func (F *NonbondedForce) ZeroCharges() {
	for i := range F.Particles {
		F.Particles[i].Charge = 0
	}
	for i := range F.Exceptions {
		F.Exceptions[i].ChargeProd = 0
	}
}

func pairEnergy(x, grad []float64, i, j int, qq, sigma, epsilon float64) float64 {
	d := sub(vec(x, i), vec(x, j))
	r := norm(d)
	if r == 0 {
		return math.Inf(1)
	}
	var e, dEdr float64
	if epsilon != 0 {
		sr6 := math.Pow(sigma/r, 6)
		e += 4 * epsilon * (sr6*sr6 - sr6)
		dEdr += 4 * epsilon * (-12*sr6*sr6 + 6*sr6) / r
	}
	if qq != 0 {
		c := CoulombConstant * qq / r
		e += c
		dEdr -= c / r
	}
	if grad != nil {
		addGrad(grad, i, dEdr/r, d)
		addGrad(grad, j, -dEdr/r, d)
	}
	return e
}

func (F *NonbondedForce) energy(x, grad []float64) float64 {
	var e float64
	except := make(map[[2]int]bool, len(F.Exceptions))
	for _, v := range F.Exceptions {
		except[pairKey(v.Atoms[0], v.Atoms[1])] = true
		if v.ChargeProd == 0 && v.Epsilon == 0 {
			continue
		}
		e += pairEnergy(x, grad, v.Atoms[0], v.Atoms[1], v.ChargeProd, v.Sigma, v.Epsilon)
	}
	for i := range F.Particles {
		pi := F.Particles[i]
		for j := i + 1; j < len(F.Particles); j++ {
			if except[[2]int{i, j}] {
				continue
			}
			pj := F.Particles[j]
			e += pairEnergy(x, grad, i, j, pi.Charge*pj.Charge, 0.5*(pi.Sigma+pj.Sigma), math.Sqrt(pi.Epsilon*pj.Epsilon))
		}
	}
	return e
}

func pairKey(i, j int) [2]int {
	if i > j {
		return [2]int{j, i}
	}
	return [2]int{i, j}
}
