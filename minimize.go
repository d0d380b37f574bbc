/*
 * minimize.go, part of ffinspector.
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

package inspector

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rmera/ffinspector/chem"
	"github.com/rmera/ffinspector/forcefield"
	"github.com/rmera/ffinspector/optim"
	"github.com/rmera/ffinspector/potential"
	v3 "github.com/rmera/ffinspector/v3"
)

//MinimizationFrame is one point of a minimization: the flat coordinates (3N, in A)
//and the potential energy (kJ/mol).
type MinimizationFrame struct {
	Geometry        []float64 `json:"geometry"`
	PotentialEnergy float64   `json:"potential_energy"`
}

//Conformer returns the geometry of the frame as a new matrix.
func (F MinimizationFrame) Conformer() (*v3.Matrix, error) {
	return v3.FromFlat(F.Geometry, 1)
}

//MinimizationTrajectory holds the frames of a minimization. The first frame is the
//starting geometry and the last one is where the optimizer stopped.
type MinimizationTrajectory struct {
	Frames []MinimizationFrame `json:"frames"`
}

//Len returns the number of frames.
func (T *MinimizationTrajectory) Len() int { return len(T.Frames) }

//Last returns the last frame.
func (T *MinimizationTrajectory) Last() MinimizationFrame { return T.Frames[len(T.Frames)-1] }

//Energies returns the potential energy of every frame.
func (T *MinimizationTrajectory) Energies() []float64 {
	ret := make([]float64, len(T.Frames))
	for i, f := range T.Frames {
		ret[i] = f.PotentialEnergy
	}
	return ret
}

//RMSD returns, for every frame, the RMSD (A) from the first frame after superimposing
//the two.
func (T *MinimizationTrajectory) RMSD() ([]float64, error) {
	if len(T.Frames) == 0 {
		return nil, nil
	}
	ref, err := T.Frames[0].Conformer()
	if err != nil {
		return nil, errDecorate(err, "MinimizationTrajectory.RMSD")
	}
	ret := make([]float64, len(T.Frames))
	for i := 1; i < len(T.Frames); i++ {
		c, err := T.Frames[i].Conformer()
		if err != nil {
			return nil, errDecorate(err, "MinimizationTrajectory.RMSD")
		}
		fit, err := chem.Super(c, ref)
		if err != nil {
			return nil, errDecorate(err, "MinimizationTrajectory.RMSD")
		}
		if ret[i], err = chem.RMSD(fit, ref); err != nil {
			return nil, errDecorate(err, "MinimizationTrajectory.RMSD")
		}
	}
	return ret, nil
}

func (T *MinimizationTrajectory) add(x []float64, e float64) {
	g := make([]float64, len(x))
	for i, v := range x {
		g[i] = v / forcefield.AngstromToNm
	}
	T.Frames = append(T.Frames, MinimizationFrame{g, e})
}

//Minimize minimizes the potential energy of top under ff, starting from conformer
//(A), and returns a frame for the starting point and for every iteration of the
//optimizer. Constraints in ff are ignored. If the optimizer doesn't converge, or a
//non-finite energy is found, a *MinimizationError with the optimizer's message is
//returned, and no trajectory.
func Minimize(top *chem.Topology, ff *forcefield.ForceField, conformer *v3.Matrix, opts ...Option) (*MinimizationTrajectory, error) {
	o := newOptions(opts)
	if top == nil || ff == nil || conformer == nil {
		return nil, Error{"nil topology, force field or conformer", []string{"Minimize"}, true, nil}
	}
	if conformer.NVecs() != top.Len() {
		return nil, Error{fmt.Sprintf("conformer with %d atoms for a molecule with %d", conformer.NVecs(), top.Len()), []string{"Minimize"}, true, nil}
	}
	top = top.Copy()
	ff = ff.Copy()
	if ff.NumParameters(forcefield.Constraints) > 0 {
		ff = ff.WithoutHandler(forcefield.Constraints)
	}
	sys, err := ff.CreateSystem(top)
	if err != nil {
		return nil, wrap(err, "Minimize", "building the system")
	}
	x0 := conformer.Flat(forcefield.AngstromToNm)
	e0, _, err := EvaluateEnergyAndGradient(sys, x0)
	if err != nil {
		return nil, errDecorate(err, "Minimize")
	}
	traj := &MinimizationTrajectory{}
	traj.add(x0, e0)
	//set by the oracle; the observer turns it into a stop request.
	nonFinite := !potential.Finite(e0)
	oracle := func(x []float64) (float64, []float64, error) {
		e, g, err := EvaluateEnergyAndGradient(sys, x)
		if err != nil {
			return 0, nil, err
		}
		if !potential.Finite(e) {
			nonFinite = true
		}
		return e, g, nil
	}
	observe := func(s optim.Step) bool {
		if o.ctx.Err() != nil || nonFinite || !potential.Finite(s.F) {
			return false
		}
		traj.add(s.X, s.F)
		return true
	}
	res, err := o.optimizer.Minimize(oracle, x0, observe)
	if err != nil {
		return nil, wrap(err, "Minimize", "running the optimizer")
	}
	log := o.logger.With(zap.String("molecule", top.Name), zap.Int("iterations", res.Iterations), zap.String("message", res.Message))
	if !res.Success {
		msg := res.Message
		if cerr := o.ctx.Err(); cerr != nil {
			msg = fmt.Sprintf("%s (%s)", msg, cerr)
		}
		log.Info("minimization failed")
		return nil, &MinimizationError{Message: msg, Iterations: res.Iterations}
	}
	if last := traj.Last(); len(res.X) == len(x0) && !sameGeometry(last.Geometry, res.X) {
		traj.add(res.X, res.F)
	}
	log.Debug("minimization converged", zap.Float64("initial", e0), zap.Float64("final", traj.Last().PotentialEnergy))
	return traj, nil
}

//sameGeometry compares a frame geometry (A) with flat positions in nm.
func sameGeometry(geomA, xnm []float64) bool {
	if len(geomA) != len(xnm) {
		return false
	}
	for i := range geomA {
		if geomA[i] != xnm[i]/forcefield.AngstromToNm {
			return false
		}
	}
	return true
}
