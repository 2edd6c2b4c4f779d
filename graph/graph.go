package graph

import "fmt"

// Graph is a builder for a directed graph of NodeSpecs, direct edges, and
// named branches (component H, spec §4.1). A Graph is mutable until
// Compile() succeeds; the returned *Compiled is immutable and safe to
// share across concurrent runs (spec §3 "Lifecycle & ownership").
type Graph struct {
	nodes    map[string]NodeSpec
	order    []string // node names in insertion order, for stable error messages
	edges    map[string][]edge
	branches map[string]BranchSpec
	start    string
	started  bool
}

// NewGraph returns an empty, mutable Graph builder.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]NodeSpec),
		edges:    make(map[string][]edge),
		branches: make(map[string]BranchSpec),
	}
}

// AddNode registers a node. Node names must be unique within a graph and
// must not be START or END (spec §4.9).
func (g *Graph) AddNode(spec NodeSpec) *Graph {
	if spec.Name == START || spec.Name == END {
		panic(fmt.Sprintf("graph: node name %q is reserved", spec.Name))
	}
	if _, exists := g.nodes[spec.Name]; exists {
		panic(fmt.Sprintf("graph: duplicate node name %q", spec.Name))
	}
	g.nodes[spec.Name] = spec
	g.order = append(g.order, spec.Name)
	return g
}

// SetStart designates the graph's single entry node. Calling it more than
// once panics at the second call; Compile does not report it as an error.
func (g *Graph) SetStart(node string) *Graph {
	if g.started {
		panic("graph: SetStart called more than once")
	}
	g.start = node
	g.started = true
	return g
}

// AddEdge adds an unconditional edge from -> to. to may be END. Forward
// references to not-yet-added node names are permitted at build time and
// validated at Compile (spec §4.9).
func (g *Graph) AddEdge(from, to string) *Graph {
	g.edges[from] = append(g.edges[from], edge{from: from, to: to})
	return g
}

// AddBranch registers a named BranchSpec for use by conditional edges.
func (g *Graph) AddBranch(spec BranchSpec) *Graph {
	g.branches[spec.Name] = spec
	return g
}

// AddConditionalEdge adds a conditional edge from a source node to a named
// branch. Per spec §4.1, when a source node has more than one outgoing
// edge, the first conditional edge (in insertion order) wins over any
// direct edges.
func (g *Graph) AddConditionalEdge(from, branch string) *Graph {
	g.edges[from] = append(g.edges[from], edge{from: from, branch: branch})
	return g
}

// CompileError locates a single compilation defect precisely, per spec
// §4.1 ("Compilation fails with a precise error locating the offender").
type CompileError struct {
	Reason string
}

func (e *CompileError) Error() string { return "graph: compile: " + e.Reason }

// Compiled is an immutable, shareable compiled graph. Use NewExecutor to
// build a runnable Executor from it (component J).
type Compiled struct {
	nodes    map[string]NodeSpec
	edges    map[string][]edge
	branches map[string]BranchSpec
	start    string
}

// Compile validates the graph's topology and returns an immutable
// *Compiled. It does not inspect handler bodies (spec §4.1):
//
//   - START must have exactly one outgoing edge.
//   - Every edge target must name a defined node or END.
//   - Every branch referenced by a conditional edge must exist.
//   - Every branch destination must name a defined node or END.
func (g *Graph) Compile() (*Compiled, error) {
	if !g.started {
		return nil, &CompileError{Reason: "no start node set"}
	}
	startEdges := g.edges[g.start]
	// START's own outgoing edges are modeled as edges from g.start is
	// wrong if g.start refers to the first real node; START itself is a
	// virtual node whose single edge is (START -> g.start). We represent
	// that edge implicitly via g.start rather than storing it under the
	// "START" key, so the single-outgoing-edge rule instead becomes:
	// exactly one start node must be designated, which SetStart already
	// enforces structurally. We still validate that the designated start
	// node exists.
	_ = startEdges
	if _, ok := g.nodes[g.start]; !ok {
		return nil, &CompileError{Reason: fmt.Sprintf("start node %q is not defined", g.start)}
	}

	validDestination := func(name string) bool {
		if name == END {
			return true
		}
		_, ok := g.nodes[name]
		return ok
	}

	for _, name := range g.order {
		for _, e := range g.edges[name] {
			if e.branch != "" {
				branch, ok := g.branches[e.branch]
				if !ok {
					return nil, &CompileError{Reason: fmt.Sprintf("node %q references undefined branch %q", name, e.branch)}
				}
				if branch.Resolve != nil {
					for key, dst := range branch.Resolve {
						if !validDestination(dst) {
							return nil, &CompileError{Reason: fmt.Sprintf("branch %q key %q resolves to undefined node %q", e.branch, key, dst)}
						}
					}
				}
				continue
			}
			if !validDestination(e.to) {
				return nil, &CompileError{Reason: fmt.Sprintf("node %q has edge to undefined node %q", name, e.to)}
			}
		}
	}

	nodes := make(map[string]NodeSpec, len(g.nodes))
	for k, v := range g.nodes {
		nodes[k] = v
	}
	edges := make(map[string][]edge, len(g.edges))
	for k, v := range g.edges {
		cp := make([]edge, len(v))
		copy(cp, v)
		edges[k] = cp
	}
	branches := make(map[string]BranchSpec, len(g.branches))
	for k, v := range g.branches {
		branches[k] = v
	}

	return &Compiled{nodes: nodes, edges: edges, branches: branches, start: g.start}, nil
}

// resolveNext implements spec §4.1's next-node resolution: an explicit
// state.GetNext() wins outright; otherwise the current node's outgoing
// edges are inspected in insertion order, the first conditional edge wins
// (its branch is evaluated), else the first direct edge is taken, else
// (no edges at all) the node transitions to END.
func (c *Compiled) resolveNext(node string, state State) (string, error) {
	if next, ok := state.GetNext(); ok {
		return next, nil
	}
	edges := c.edges[node]
	for _, e := range edges {
		if e.branch == "" {
			continue
		}
		branch, ok := c.branches[e.branch]
		if !ok {
			return "", &BranchError{Branch: e.branch, Key: ""}
		}
		key := branch.Eval(state)
		dst, ok := branch.resolve(key)
		if !ok {
			return "", &BranchError{Branch: e.branch, Key: key}
		}
		return dst, nil
	}
	for _, e := range edges {
		if e.branch == "" {
			return e.to, nil
		}
	}
	return END, nil
}
