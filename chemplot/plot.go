/*
 * plot.go, part of ffinspector.
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

package chemplot

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	inspector "github.com/rmera/ffinspector"
)

//Size is the width and height of the plots produced by this package.
var Size = 5 * vg.Inch

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//EnergyProfile plots the given energies (kJ/mol), one per minimization frame, against the
//frame index, and saves the plot to filename. The format is taken from the extension
//of filename (png, svg, pdf, eps...).
func EnergyProfile(energies []float64, title, filename string) error {
	if len(energies) == 0 {
		return Error{"No energies to plot", []string{"EnergyProfile"}}
	}
	p := basicPlot(title, "Frame", "Potential energy (kJ/mol)")
	pts := make(plotter.XYs, len(energies))
	for i, v := range energies {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return errDecorate(err, "EnergyProfile")
	}
	l.Color = palette(0, 1)
	s.GlyphStyle.Color = l.Color
	p.Add(l, s)
	return save(p, filename, "EnergyProfile")
}

//Bars plots a bar chart with one bar per value, each labeled with the corresponding
//element of labels, and saves it to filename.
func Bars(labels []string, values []float64, title, ylabel, filename string) error {
	if len(values) == 0 || len(labels) != len(values) {
		return Error{fmt.Sprintf("%d labels for %d values", len(labels), len(values)), []string{"Bars"}}
	}
	p := basicPlot(title, "", ylabel)
	w := vg.Points(20)
	for i, v := range values {
		b, err := plotter.NewBarChart(plotter.Values{v}, w)
		if err != nil {
			return errDecorate(err, "Bars")
		}
		b.XMin = float64(i)
		b.Color = palette(i, len(values))
		b.LineStyle.Width = 0
		p.Add(b)
	}
	p.NominalX(labels...)
	return save(p, filename, "Bars")
}

//Decomposition plots the energy of each valence parameter of d, sorted by handler and id,
//followed by the van der Waals and electrostatic energies.
func Decomposition(d *inspector.DecomposedEnergy, title, filename string) error {
	var labels []string
	var values []float64
	for _, h := range inspector.GroupedHandlers {
		ids := make([]string, 0, len(d.ValenceEnergies[h]))
		for id := range d.ValenceEnergies[h] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			labels = append(labels, id)
			values = append(values, d.ValenceEnergies[h][id])
		}
	}
	labels = append(labels, "vdW", "Elec")
	values = append(values, d.VdWEnergy, d.ElectrostaticEnergy)
	if err := Bars(labels, values, title, "Energy (kJ/mol)", filename); err != nil {
		return errDecorate(err, "Decomposition")
	}
	return nil
}

func save(p *plot.Plot, filename, caller string) error {
	if err := p.Save(Size, Size, filename); err != nil {
		return Error{fmt.Sprintf("Can't save plot to %s: %s", filename, err.Error()), []string{caller}}
	}
	return nil
}
