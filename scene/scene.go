package scene

import (
	"github.com/achilleasa/borealis/log"
	"github.com/achilleasa/borealis/scene/bvh"
	"github.com/achilleasa/borealis/types"
)

// Maximum bvh tree depth supported by the iterative traversal stack. The
// builder produces trees that are far shallower than this for any scene that
// fits in memory.
const maxTraversalDepth = 64

// A bounded volume wrapper that links a bvh work item back to the sphere it
// was generated from.
type spherePrimitive struct {
	min    types.Vec3
	max    types.Vec3
	center types.Vec3

	sphereIndex uint32
}

func (p *spherePrimitive) BBox() [2]types.Vec3 {
	return [2]types.Vec3{p.min, p.max}
}

func (p *spherePrimitive) Centroid() types.Vec3 {
	return p.center
}

// A scene holds the primitive list, the camera and the compiled acceleration
// structure. Scenes are assembled once, compiled with Build and treated as
// read-only for the duration of a render; this is what makes lock-free
// concurrent traversal from the tracer workers safe.
type Scene struct {
	Spheres []Sphere
	Camera  *Camera

	// The compiled bvh node arena and the leaf-ordered sphere indices it
	// refers to.
	bvhNodes []bvh.Node
	bvhPrims []uint32

	logger log.Logger
}

// Create a new empty scene.
func New() *Scene {
	return &Scene{
		logger: log.New("scene"),
	}
}

// Append a sphere to the scene.
func (s *Scene) AddSphere(sp Sphere) {
	s.Spheres = append(s.Spheres, sp)
}

// Compile the acceleration structure for the current primitive list using
// the given split scoring strategy and leaf size. Build must be called again
// if the primitive list changes.
func (s *Scene) Build(strategy bvh.ScoreStrategy, minLeafItems int) {
	workList := make([]bvh.BoundedVolume, len(s.Spheres))
	for idx := range s.Spheres {
		bbox := s.Spheres[idx].BBox()
		workList[idx] = &spherePrimitive{
			min:         bbox[0],
			max:         bbox[1],
			center:      s.Spheres[idx].Center,
			sphereIndex: uint32(idx),
		}
	}

	s.bvhPrims = make([]uint32, 0, len(s.Spheres))
	s.bvhNodes = bvh.Build(workList, minLeafItems, func(leaf *bvh.Node, itemList []bvh.BoundedVolume) {
		firstPrimIndex := uint32(len(s.bvhPrims))
		for _, item := range itemList {
			s.bvhPrims = append(s.bvhPrims, item.(*spherePrimitive).sphereIndex)
		}
		leaf.SetPrimitives(firstPrimIndex, uint32(len(itemList)))
	}, strategy)

	// The iterative traversal in Intersect uses a fixed-size stack that
	// holds at most one entry per tree level. A deeper tree would overflow
	// it, so refuse the bvh and keep the linear fallback instead.
	if len(s.bvhNodes) > 0 {
		if depth := bvhDepth(s.bvhNodes, 0); depth > maxTraversalDepth {
			s.logger.Warningf("bvh depth %d exceeds the traversal stack limit %d; using linear intersection instead", depth, maxTraversalDepth)
			s.bvhNodes = nil
			s.bvhPrims = nil
			return
		}
	}

	s.logger.Infof("compiled bvh for %d primitives (%d nodes)", len(s.Spheres), len(s.bvhNodes))
}

// Number of levels in the subtree rooted at nodeIndex, counting both the root
// and the deepest leaf.
func bvhDepth(nodes []bvh.Node, nodeIndex uint32) int {
	node := &nodes[nodeIndex]
	if node.IsLeaf() {
		return 1
	}

	left, right := node.GetChildNodes()
	depth := bvhDepth(nodes, left)
	if rightDepth := bvhDepth(nodes, right); rightDepth > depth {
		depth = rightDepth
	}
	return depth + 1
}

// Intersect returns the closest primitive intersection within the query
// interval, or false when the ray misses all geometry. When the scene has a
// compiled bvh the traversal prunes subtrees whose bounds the ray misses;
// otherwise every primitive is tested in turn.
func (s *Scene) Intersect(q RayQuery, rec *HitRecord) bool {
	if len(s.bvhNodes) == 0 {
		return s.intersectLinear(q, rec)
	}

	// Iterative traversal with an explicit stack; narrowing q.TMax as hits
	// are found lets the slab test prune nodes that can no longer contain
	// a closer hit.
	var stack [maxTraversalDepth]uint32
	stackTop := 0
	stack[stackTop] = 0
	stackTop++

	hitFound := false
	for stackTop > 0 {
		stackTop--
		node := &s.bvhNodes[stack[stackTop]]

		if !node.IntersectRay(q.Ray, q.TMin, q.TMax) {
			continue
		}

		if node.IsLeaf() {
			firstPrimIndex, count := node.GetPrimitives()
			for primIndex := firstPrimIndex; primIndex < firstPrimIndex+count; primIndex++ {
				sphere := &s.Spheres[s.bvhPrims[primIndex]]
				if sphere.Intersect(q, rec) {
					hitFound = true
					q.TMax = rec.T
				}
			}
			continue
		}

		left, right := node.GetChildNodes()
		stack[stackTop] = left
		stackTop++
		stack[stackTop] = right
		stackTop++
	}

	return hitFound
}

// Brute-force intersection over the full primitive list. Used as a fallback
// when no bvh has been compiled.
func (s *Scene) intersectLinear(q RayQuery, rec *HitRecord) bool {
	hitFound := false
	for idx := range s.Spheres {
		if s.Spheres[idx].Intersect(q, rec) {
			hitFound = true
			q.TMax = rec.T
		}
	}
	return hitFound
}
