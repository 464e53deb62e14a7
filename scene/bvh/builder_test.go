package bvh

import (
	"testing"

	"github.com/achilleasa/borealis/types"
)

type testVolume struct {
	min types.Vec3
	max types.Vec3
}

func (v *testVolume) BBox() [2]types.Vec3 {
	return [2]types.Vec3{v.min, v.max}
}

func (v *testVolume) Centroid() types.Vec3 {
	return v.min.Add(v.max).Mul(0.5)
}

func makeQuadrantVolumes() []BoundedVolume {
	type volSpec struct {
		min types.Vec3
		max types.Vec3
	}

	volSpecs := []volSpec{
		{types.Vec3{-2, 0, -2}, types.Vec3{-1, 1, -1}},
		{types.Vec3{1, 0, -2}, types.Vec3{2, 1, -1}},
		{types.Vec3{-2, 0, 1}, types.Vec3{-1, 1, 2}},
		{types.Vec3{1, 0, 1}, types.Vec3{2, 1, 2}},
	}

	itemList := make([]BoundedVolume, len(volSpecs))
	for idx, vs := range volSpecs {
		itemList[idx] = &testVolume{min: vs.min, max: vs.max}
	}
	return itemList
}

func TestLeafCallback(t *testing.T) {
	itemList := makeQuadrantVolumes()

	var cbCount = 0
	var expItemListCount = 0
	cb := func(leaf *Node, itemList []BoundedVolume) {
		cbCount++
		if len(itemList) != expItemListCount {
			t.Fatalf("expected leaf callback to be called with %d items; got %d", expItemListCount, len(itemList))
		}
	}

	var expCount = 0

	// Partition each item in a single leaf
	cbCount = 0
	expItemListCount = 1
	treeNodes := Build(itemList, 1, cb, SurfaceAreaHeuristic)

	expCount = 4
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 7
	if len(treeNodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(treeNodes))
	}

	// Partition two items in a single leaf
	cbCount = 0
	expItemListCount = 2
	treeNodes = Build(itemList, 2, cb, SurfaceAreaHeuristic)

	expCount = 2
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 3
	if len(treeNodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(treeNodes))
	}
}

func TestBalancedCountsStrategy(t *testing.T) {
	itemList := makeQuadrantVolumes()

	leafSizes := make([]int, 0)
	cb := func(leaf *Node, itemList []BoundedVolume) {
		leafSizes = append(leafSizes, len(itemList))
	}

	treeNodes := Build(itemList, 2, cb, BalancedCounts)

	if exp := 2; len(leafSizes) != exp {
		t.Fatalf("expected %d leafs; got %d", exp, len(leafSizes))
	}
	for _, size := range leafSizes {
		if size != 2 {
			t.Fatalf("expected balanced leafs with 2 items each; got leaf sizes %v", leafSizes)
		}
	}
	if exp := 3; len(treeNodes) != exp {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", exp, len(treeNodes))
	}
}

func TestNodeBBoxIsExactUnionOfChildren(t *testing.T) {
	itemList := makeQuadrantVolumes()

	treeNodes := Build(itemList, 1, func(*Node, []BoundedVolume) {}, SurfaceAreaHeuristic)

	for idx, node := range treeNodes {
		if node.IsLeaf() {
			continue
		}
		left, right := node.GetChildNodes()
		union := emptyBBoxNode()
		union.Min = types.MinVec3(treeNodes[left].Min, treeNodes[right].Min)
		union.Max = types.MaxVec3(treeNodes[left].Max, treeNodes[right].Max)
		if union.Min != node.Min || union.Max != node.Max {
			t.Fatalf("node %d: expected bbox to be the exact union of its children; got min %v max %v want min %v max %v",
				idx, node.Min, node.Max, union.Min, union.Max)
		}
	}
}

func TestBuildWithEmptyWorkList(t *testing.T) {
	treeNodes := Build(nil, 1, func(*Node, []BoundedVolume) {
		t.Fatal("expected leaf callback not to be invoked for an empty work list")
	}, SurfaceAreaHeuristic)

	if treeNodes != nil {
		t.Fatalf("expected empty node arena; got %d nodes", len(treeNodes))
	}
}

func TestNodeIntersectRay(t *testing.T) {
	node := Node{Min: types.Vec3{-1, -1, -1}, Max: types.Vec3{1, 1, 1}}

	type spec struct {
		origin types.Vec3
		dir    types.Vec3
		expHit bool
	}
	specs := []spec{
		// Straight through the center
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, true},
		// Pointing away from the box
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, false},
		// Parallel to Z inside the X/Y slabs
		{types.Vec3{0.5, 0.5, -5}, types.Vec3{0, 0, 1}, true},
		// Parallel to Z outside the X slab
		{types.Vec3{2, 0, -5}, types.Vec3{0, 0, 1}, false},
		// Diagonal through a corner region
		{types.Vec3{-5, -5, -5}, types.Vec3{1, 1, 1}, true},
		// Diagonal missing the box
		{types.Vec3{-5, 5, 0}, types.Vec3{1, 1, 0}, false},
	}

	for index, s := range specs {
		got := node.IntersectRay(types.NewRay(s.origin, s.dir), 0.001, math32Max)
		if got != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, got)
		}
	}
}

const math32Max float32 = 3.4e38
