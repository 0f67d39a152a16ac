package document

// Command is one committed edit. Old and New are deep copies and never
// alias the live document. Inserted marks an edit that added a new object
// member; Old is meaningless in that case and undo removes the member.
type Command struct {
	Path     Path
	Old      Value
	New      Value
	Inserted bool
}

// Store owns the document of one editing session. It is not safe for
// concurrent use.
type Store struct {
	root   Value
	loaded bool
}

// NewStore returns an empty store holding null.
func NewStore() *Store {
	return &Store{}
}

// Load parses text and replaces the document. On failure the previous
// document is left intact.
func (s *Store) Load(text string) error {
	v, err := Parse(text)
	if err != nil {
		return err
	}
	s.Reset(v)
	return nil
}

// Reset replaces the document with a copy of v.
func (s *Store) Reset(v Value) {
	s.root = v.Clone()
	s.loaded = true
}

// Loaded reports whether a document has been loaded or reset.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() Value {
	return s.root.Clone()
}

// Get returns a copy of the value at p.
func (s *Store) Get(p Path) (Value, error) {
	v, err := walk(&s.root, p, len(p))
	if err != nil {
		return Value{}, err
	}
	return v.Clone(), nil
}

// Set validates p and writes v there. It returns nil and leaves the
// document untouched when the current value already equals v. Setting a
// missing key on an object inserts it at the end. The empty path replaces
// the whole document.
func (s *Store) Set(p Path, v Value) (*Command, error) {
	if len(p) == 0 {
		if s.root.Equal(v) {
			return nil, nil
		}
		cmd := &Command{Path: Path{}, Old: s.root.Clone(), New: v.Clone()}
		s.root = v.Clone()
		return cmd, nil
	}

	slot, parent, err := s.resolveSlot(p)
	if err != nil {
		return nil, err
	}

	if slot == nil {
		parent.Put(p.Last(), v.Clone())
		return &Command{Path: clonePath(p), New: v.Clone(), Inserted: true}, nil
	}
	if slot.Equal(v) {
		return nil, nil
	}
	cmd := &Command{Path: clonePath(p), Old: slot.Clone(), New: v.Clone()}
	*slot = v.Clone()
	return cmd, nil
}

// Apply writes v at p without the no-op check. It is the primitive used to
// replay history.
func (s *Store) Apply(p Path, v Value) error {
	if len(p) == 0 {
		s.root = v.Clone()
		return nil
	}

	slot, parent, err := s.resolveSlot(p)
	if err != nil {
		return err
	}
	if slot == nil {
		parent.Put(p.Last(), v.Clone())
		return nil
	}
	*slot = v.Clone()
	return nil
}

// Remove deletes the object member at p.
func (s *Store) Remove(p Path) error {
	if len(p) == 0 {
		return ErrUnsupported
	}
	parent, err := walk(&s.root, p, len(p)-1)
	if err != nil {
		return err
	}
	if parent.kind != Object {
		return ErrUnsupported
	}
	if !parent.remove(p.Last()) {
		return &PathError{Kind: MissingKey, Path: clonePath(p), Depth: len(p) - 1, Step: p.Last(), Expected: Object, Found: Object, Available: parent.Keys()}
	}
	return nil
}

// Serialize renders the document as compact JSON.
func (s *Store) Serialize() string {
	return Serialize(s.root)
}

// Pretty renders the document indented by two spaces.
func (s *Store) Pretty() string {
	return Indent(s.root, "  ")
}

// resolveSlot finds the location named by a non-empty path. For an object
// member that does not exist yet, slot is nil and parent is the object.
func (s *Store) resolveSlot(p Path) (slot, parent *Value, err error) {
	parent, err = walk(&s.root, p, len(p)-1)
	if err != nil {
		return nil, nil, err
	}

	depth := len(p) - 1
	step := p.Last()
	switch parent.kind {
	case Object:
		if i, ok := parent.index[step]; ok {
			return &parent.vals[i], parent, nil
		}
		return nil, parent, nil
	case Array:
		i, err := arrayIndex(parent, p, depth)
		if err != nil {
			return nil, nil, err
		}
		return &parent.items[i], parent, nil
	default:
		return nil, nil, &PathError{Kind: NotContainer, Path: clonePath(p), Depth: depth, Step: step, Found: parent.kind}
	}
}

// walk follows the first n steps of p from v. Errors carry the full path
// and the depth of the failing step.
func walk(v *Value, p Path, n int) (*Value, error) {
	cur := v
	for depth := 0; depth < n; depth++ {
		step := p[depth]
		switch cur.kind {
		case Object:
			idx, ok := cur.index[step]
			if !ok {
				return nil, &PathError{Kind: MissingKey, Path: clonePath(p), Depth: depth, Step: step, Expected: Object, Found: Object, Available: cur.Keys()}
			}
			cur = &cur.vals[idx]
		case Array:
			idx, err := arrayIndex(cur, p, depth)
			if err != nil {
				return nil, err
			}
			cur = &cur.items[idx]
		default:
			return nil, &PathError{Kind: NotContainer, Path: clonePath(p), Depth: depth, Step: step, Found: cur.kind}
		}
	}
	return cur, nil
}

func arrayIndex(arr *Value, p Path, depth int) (int, error) {
	step := p[depth]
	n, ok := parseIndex(step)
	if !ok {
		return 0, &PathError{Kind: BadIndex, Path: clonePath(p), Depth: depth, Step: step, Expected: Array, Found: Array}
	}
	if n < 0 || n >= len(arr.items) {
		return 0, &PathError{Kind: OutOfRange, Path: clonePath(p), Depth: depth, Step: step, Expected: Array, Found: Array, Len: len(arr.items)}
	}
	return n, nil
}

func clonePath(p Path) Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}
