// padena: a parallel de-novo De Bruijn genome assembler.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/padena/blob/master/LICENSE.txt>.

package graph

import (
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

func dotName(id int) string {
	return "n" + strconv.Itoa(id)
}

// WriteDot writes the live nodes and their extensions in Graphviz DOT
// format. Edges between nodes in the same orientation are solid; edges
// that need a reverse complement are dashed and written once.
func (g *Graph) WriteDot(w io.Writer) error {
	dot := gographviz.NewGraph()
	if err := dot.SetName("G"); err != nil {
		return err
	}
	if err := dot.SetDir(true); err != nil {
		return err
	}
	live := g.LiveNodes()
	for _, id := range live {
		attrs := map[string]string{
			"label": strconv.Quote(string(g.NodeSequence(id)) + " x" + strconv.Itoa(g.nodes[id].count)),
		}
		if err := dot.AddNode("G", dotName(id), attrs); err != nil {
			return err
		}
	}
	dashed := map[string]string{"style": "dashed", "arrowhead": "none"}
	for _, id := range live {
		node := g.nodes[id]
		for _, e := range node.Right() {
			if e.SameOrientation {
				if err := dot.AddEdge(dotName(id), dotName(e.Node), true, nil); err != nil {
					return err
				}
			} else if id <= e.Node {
				if err := dot.AddEdge(dotName(id), dotName(e.Node), true, dashed); err != nil {
					return err
				}
			}
		}
		for _, e := range node.Left() {
			if !e.SameOrientation && id <= e.Node {
				if err := dot.AddEdge(dotName(e.Node), dotName(id), true, dashed); err != nil {
					return err
				}
			}
		}
	}
	_, err := io.WriteString(w, dot.String())
	return err
}
