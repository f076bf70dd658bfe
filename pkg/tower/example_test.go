package tower_test

import (
	"fmt"

	"github.com/matzehuels/rocktower/pkg/tower"
)

func ExampleTower() {
	// Drop a line while a jet keeps pushing it to the right.
	t := tower.New()
	t.EnsureClearance(tower.Line.Height())
	r := t.Spawn(tower.Line)
	for {
		t.TryShift(&r, tower.Right)
		if !t.TryFall(&r) {
			break
		}
	}
	t.Settle(&r)

	fmt.Println("Height:", t.Height())
	fmt.Println(t.Row(1))
	fmt.Println(t.Row(0))
	// Output:
	// Height: 1
	// |...####|
	// |#######|
}

func ExampleShapeAt() {
	for i := int64(0); i < 7; i++ {
		fmt.Print(tower.ShapeAt(i), " ")
	}
	fmt.Println()
	// Output:
	// line cross angle stick square line cross
}
