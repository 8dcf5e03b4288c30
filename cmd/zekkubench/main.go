// Command zekkubench is a thin timing harness around zekku's PointTree: insert
// -o random points into a world of side 2*-r, then time -q circle queries
// against the result. It is not part of the zekku package;
// spec.md scopes a CLI out of the core library entirely.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/nagakawa/zekku"
)

func main() {
	radius := flag.Float64("r", 1000, "half-width of the square world")
	objects := flag.Int("o", 100000, "number of objects to insert")
	queries := flag.Int("q", 1000, "number of circle queries to time")
	dump := flag.Bool("dump", false, "print the tree structure after building it")
	flag.Parse()

	tr := zekku.Float64Trait{}
	world := zekku.NewAABB(
		zekku.Vec2[float64]{X: 0, Y: 0},
		zekku.Vec2[float64]{X: *radius, Y: *radius},
		tr,
	)

	pt := zekku.NewPointTree[zekku.Vec2[float64], float64, uint32](
		world, tr, func(p *zekku.Vec2[float64]) zekku.Vec2[float64] { return *p },
	)

	rng := rand.New(rand.NewPCG(1, 2))
	randCoord := func() float64 { return (rng.Float64()*2 - 1) * *radius }

	start := time.Now()
	for i := 0; i < *objects; i++ {
		if _, err := pt.Insert(zekku.Vec2[float64]{X: randCoord(), Y: randCoord()}); err != nil {
			fmt.Fprintln(os.Stderr, "insert:", err)
			os.Exit(1)
		}
	}
	insertElapsed := time.Since(start)

	queryRadius := *radius / 20
	start = time.Now()
	hits := 0
	for i := 0; i < *queries; i++ {
		shape := zekku.Circle[float64]{
			Center: zekku.Vec2[float64]{X: randCoord(), Y: randCoord()},
			Radius: queryRadius,
			Tr:     tr,
		}
		hits += len(pt.Query(shape))
	}
	queryElapsed := time.Since(start)

	fmt.Printf("inserted %d points in %v (%.0f/s)\n", *objects, insertElapsed, float64(*objects)/insertElapsed.Seconds())
	fmt.Printf("ran %d queries in %v, %d total hits (%.0f/s)\n", *queries, queryElapsed, hits, float64(*queries)/queryElapsed.Seconds())

	if *dump {
		if err := pt.Dump(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "dump:", err)
			os.Exit(1)
		}
	}
}
