package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the primitive a node draws. Group nodes only carry a transform.
type Kind int

const (
	Group Kind = iota
	Sphere
	Cylinder
	Cone
	Line
	Label
	Points
	DirectionalLight
	AmbientLight
)

func (k Kind) String() string {
	switch k {
	case Group:
		return "group"
	case Sphere:
		return "sphere"
	case Cylinder:
		return "cylinder"
	case Cone:
		return "cone"
	case Line:
		return "line"
	case Label:
		return "label"
	case Points:
		return "points"
	case DirectionalLight:
		return "directional-light"
	case AmbientLight:
		return "ambient-light"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Material is the flat appearance of a primitive.
type Material struct {
	Color       uint32
	Opacity     float64
	Transparent bool
	// BackSide marks outline shells drawn behind their fill.
	BackSide  bool
	Dashed    bool
	LineWidth float64
}

// Solid is an opaque material of the given color.
func Solid(color uint32) Material {
	return Material{Color: color, Opacity: 1}
}

// Node is one element of the scene graph. Transforms compose parent to
// child as translate * rotate * scale.
type Node struct {
	Name     string
	Kind     Kind
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
	Visible  bool
	Material Material

	// Radius applies to spheres, cylinders and cones; Length is the extent
	// of cylinders and cones along local +y.
	Radius float64
	Length float64
	// Vertices are the local geometry of lines and point sets.
	Vertices []mgl64.Vec3
	Text     string

	Intensity     float64
	CastShadow    bool
	ReceiveShadow bool

	parent   *Node
	children []*Node
	world    mgl64.Mat4
}

func NewNode(name string, kind Kind) *Node {
	return &Node{
		Name:     name,
		Kind:     kind,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Visible:  true,
		Material: Solid(0xffffff),
		world:    mgl64.Ident4(),
	}
}

func NewGroup(name string) *Node {
	return NewNode(name, Group)
}

func NewSphere(name string, center mgl64.Vec3, radius float64, m Material) *Node {
	n := NewNode(name, Sphere)
	n.Position = center
	n.Radius = radius
	n.Material = m
	return n
}

// NewCylinder spans start to end. The local +y axis is rotated onto the
// direction of the segment.
func NewCylinder(name string, start, end mgl64.Vec3, radius float64, m Material) *Node {
	n := NewNode(name, Cylinder)
	dir := end.Sub(start)
	n.Position = start.Add(dir.Mul(0.5))
	n.Length = dir.Len()
	n.Radius = radius
	n.Material = m
	if n.Length > 0 {
		n.Rotation = mgl64.QuatBetweenVectors(mgl64.Vec3{0, 1, 0}, dir.Mul(1/n.Length))
	}
	return n
}

func NewLine(name string, m Material, vertices ...mgl64.Vec3) *Node {
	n := NewNode(name, Line)
	n.Vertices = vertices
	n.Material = m
	return n
}

func NewLabel(name, text string, at mgl64.Vec3, color uint32) *Node {
	n := NewNode(name, Label)
	n.Text = text
	n.Position = at
	n.Material = Solid(color)
	return n
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// Add attaches children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Clear detaches the whole subtree so nothing keeps the old nodes alive.
func (n *Node) Clear() {
	for _, c := range n.children {
		c.Clear()
		c.parent = nil
	}
	n.children = nil
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node named name in the subtree, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes of kind k in the subtree.
func (n *Node) Count(k Kind) int {
	count := 0
	n.Walk(func(c *Node) bool {
		if c.Kind == k {
			count++
		}
		return true
	})
	return count
}

func (n *Node) Local() mgl64.Mat4 {
	return mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(n.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// UpdateWorld recomputes world matrices for the subtree. It must be called
// after transforms change and before World or LocalToWorld are read.
func (n *Node) UpdateWorld() {
	if n.parent == nil {
		n.world = n.Local()
	} else {
		n.world = n.parent.world.Mul4(n.Local())
	}
	for _, c := range n.children {
		c.UpdateWorld()
	}
}

func (n *Node) World() mgl64.Mat4 { return n.world }

func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return n.world.Mul4x1(p.Vec4(1)).Vec3()
}

// WorldPosition is the origin of the node in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.world.Col(3).Vec3()
}

// Shown reports whether n and all of its ancestors are visible.
func (n *Node) Shown() bool {
	for c := n; c != nil; c = c.parent {
		if !c.Visible {
			return false
		}
	}
	return true
}
