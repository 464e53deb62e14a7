package bvh

import (
	"math"

	"github.com/achilleasa/borealis/types"
)

// Bvh nodes are stored in a flat arena and addressed by index. Each node is
// comprised of two Vec3 bounds and two multipurpose int32 parameters whose
// value depends on the node type:
//
// - For non-leaf nodes they are both > 0 and point to the L/R child nodes
// - For leafs:
//   - left data is <= 0 and points to the first primitive index
//   - right data is > 0 and contains the count of leaf primitives
type Node struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set bounding box.
func (n *Node) SetBBox(bbox [2]types.Vec3) {
	n.Min = bbox[0]
	n.Max = bbox[1]
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *Node) GetChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set primitive index and count, marking this node as a leaf.
func (n *Node) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *Node) GetPrimitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Check whether this node is a leaf. The arena is built root-first so only
// leaf nodes can carry a non-positive left data word.
func (n *Node) IsLeaf() bool {
	return n.LData <= 0
}

// Intersect the node bounding box with a ray over the interval (tMin, tMax)
// using the slab method. Rays parallel to a slab axis hit only if their
// origin lies between the slab planes.
func (n *Node) IntersectRay(r types.Ray, tMin, tMax float32) bool {
	for axis := 0; axis < 3; axis++ {
		dir := r.Dir[axis]
		origin := r.Origin[axis]

		if dir > -1e-8 && dir < 1e-8 {
			if origin < n.Min[axis] || origin > n.Max[axis] {
				return false
			}
			continue
		}

		invDir := 1.0 / dir
		tNear := (n.Min[axis] - origin) * invDir
		tFar := (n.Max[axis] - origin) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}
		if tNear > tMin {
			tMin = tNear
		}
		if tFar < tMax {
			tMax = tFar
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}

// An empty node bbox that any real bbox can be unioned into.
func emptyBBoxNode() Node {
	return Node{
		Min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}
