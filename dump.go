package zekku

import (
	"fmt"
	"io"
)

// dumpBox formats an AABB as spec.md §6's "[xmin, ymin; xmax, ymax]".
func dumpBox[F any](tr Trait[F], b AABB[F]) string {
	lo := Vec2[F]{X: tr.Sub(b.Center.X, b.Half.X), Y: tr.Sub(b.Center.Y, b.Half.Y)}
	hi := Vec2[F]{X: tr.Add(b.Center.X, b.Half.X), Y: tr.Add(b.Center.Y, b.Half.Y)}
	return fmt.Sprintf("[%v, %v; %v, %v]", lo.X, lo.Y, hi.X, hi.Y)
}

// Dump writes one line per node, depth-first, each indented by its depth and
// tagged Stem/Leaf/Link followed by its box, per spec.md §6. It also emits a
// single structured summary line through the tree's configured logger
// (WithLogger), the way hupe1980/vecgo's engine logs an operation alongside
// its own line-oriented output.
func (pt *PointTree[T, F, I]) Dump(w io.Writer) error {
	nodes, leaves, links, maxDepth := 0, 0, 0, 0
	var walk func(cur uint32, box AABB[F], depth int) error
	walk = func(cur uint32, box AABB[F], depth int) error {
		node := pt.nodes.Get(cur)
		nodes++
		if depth > maxDepth {
			maxDepth = depth
		}
		indent := make([]byte, depth)
		for i := range indent {
			indent[i] = '\t'
		}
		switch node.state {
		case stateStem:
			if _, err := fmt.Fprintf(w, "%sStem %s\n", indent, dumpBox(pt.tr, box)); err != nil {
				return err
			}
			for q := 0; q < 4; q++ {
				if err := walk(node.children[q], box.Sub(q), depth+1); err != nil {
					return err
				}
			}
		case stateLink:
			links++
			if _, err := fmt.Fprintf(w, "%sLink %s (%d slots)\n", indent, dumpBox(pt.tr, box), node.count); err != nil {
				return err
			}
			return walk(node.children[0], box, depth+1)
		default:
			leaves++
			if _, err := fmt.Fprintf(w, "%sLeaf %s (%d slots)\n", indent, dumpBox(pt.tr, box), node.count); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(pt.root, pt.world, 0); err != nil {
		return err
	}
	pt.cfg.logger.Info("point tree dump",
		"nodes", nodes, "leaves", leaves, "links", links, "max_depth", maxDepth)
	return nil
}

// Dump writes one line per node, depth-first, each indented by its depth and
// tagged Stem/Leaf/Link followed by its box, per spec.md §6.
func (bt *BoxTree[T, F, I]) Dump(w io.Writer) error {
	nodes, leaves, links, stems, maxDepth := 0, 0, 0, 0, 0
	var walk func(cur uint32, box AABB[F], depth int) error
	walk = func(cur uint32, box AABB[F], depth int) error {
		node := bt.nodes.Get(cur)
		nodes++
		if depth > maxDepth {
			maxDepth = depth
		}
		indent := make([]byte, depth)
		for i := range indent {
			indent[i] = '\t'
		}
		if node.isStem {
			stems++
			if _, err := fmt.Fprintf(w, "%sStem %s (%d stamped)\n", indent, dumpBox(bt.tr, box), len(node.slots)); err != nil {
				return err
			}
			for q := 0; q < 4; q++ {
				if err := walk(node.children[q], box.Sub(q), depth+1); err != nil {
					return err
				}
			}
			return nil
		}
		if node.isLink {
			links++
			if _, err := fmt.Fprintf(w, "%sLink %s (%d slots)\n", indent, dumpBox(bt.tr, box), node.count); err != nil {
				return err
			}
			return walk(node.children[0], box, depth+1)
		}
		leaves++
		_, err := fmt.Fprintf(w, "%sLeaf %s (%d slots)\n", indent, dumpBox(bt.tr, box), node.count)
		return err
	}
	if err := walk(bt.root, bt.world, 0); err != nil {
		return err
	}
	bt.cfg.logger.Info("box tree dump",
		"nodes", nodes, "stems", stems, "leaves", leaves, "links", links, "max_depth", maxDepth)
	return nil
}
