package strategy

import (
	"cmp"
	"slices"

	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/zyedidia/generic/mapset"
)

// Factory creates explorers and runs the hand-off protocol between them.
//
// Pending obstacles were seen on the untracked side and still need following.
// Tagged obstacles were already followed. The two sets never intersect.
type Factory struct {
	cfg     Config
	current *Explorer

	pending mapset.Set[game.Coordinate]
	tagged  mapset.Set[game.Coordinate]

	switchingPoint    game.Coordinate
	hasSwitchingPoint bool
	// justFoundSwitchingPoint keeps a freshly recorded switching point from
	// being recognised as a completed loop on the same pass.
	justFoundSwitchingPoint bool
	searchingForTurn        bool
}

// NewFactory creates a factory with empty obstacle sets.
func NewFactory(cfg Config) *Factory {
	return &Factory{
		cfg:     cfg,
		pending: mapset.New[game.Coordinate](),
		tagged:  mapset.New[game.Coordinate](),
	}
}

// Create builds the named variant and makes it current.
func (f *Factory) Create(name Name) (*Explorer, error) {
	e, err := New(name, f.cfg)
	if err != nil {
		return nil, err
	}
	f.current = e
	return e, nil
}

// Change swaps the current variant for the other one and forgets the
// switching point so the new variant records its own.
func (f *Factory) Change() *Explorer {
	f.hasSwitchingPoint = false
	switch {
	case f.current == nil:
		return nil
	case f.current.Name() == FollowLeft:
		f.current = NewFollowRight(f.cfg)
	default:
		f.current = NewFollowLeft(f.cfg)
	}
	return f.current
}

// Current returns the active explorer, or nil before Create.
func (f *Factory) Current() *Explorer {
	return f.current
}

// Register records the nearest obstacle on the untracked side as pending,
// unless it is already pending or tagged.
func (f *Factory) Register(obs Observation) {
	c, ok := f.current.FindTileOnOtherSide(obs.View, obs.Position, obs.Heading)
	if !ok || f.pending.Has(c) || f.tagged.Has(c) {
		return
	}
	f.pending.Put(c)
}

// Deregister tags the first obstacle in the tracked-side slice and removes it
// from pending. At most one obstacle is tagged per call.
func (f *Factory) Deregister(obs Observation) {
	for _, slot := range f.current.TrackedSlice(obs) {
		if f.current.Obstacles().Matches(slot.Tile) {
			f.pending.Remove(slot.Coordinate)
			f.tagged.Put(slot.Coordinate)
			return
		}
	}
}

// Monitor watches for the agent looping back to its switching point and then
// searches for a turning point. It returns the updated hand-off action and
// whether that action was produced by this call's search.
func (f *Factory) Monitor(obs Observation, handOff game.Action) (game.Action, bool) {
	followed, following := f.current.FollowedObstacle(obs)

	if following && !f.hasSwitchingPoint {
		f.switchingPoint = followed
		f.hasSwitchingPoint = true
		f.justFoundSwitchingPoint = true
	}

	if f.justFoundSwitchingPoint && following && followed != f.switchingPoint {
		f.justFoundSwitchingPoint = false
	}

	if !f.justFoundSwitchingPoint && handOff == game.NoAction && following && followed == f.switchingPoint {
		f.searchingForTurn = true
	}

	if !f.searchingForTurn {
		return handOff, false
	}

	handOff = f.current.FindTurningPoint(obs, &f.pending)
	if handOff.IsTurn() {
		f.searchingForTurn = false
	}
	return handOff, true
}

// SwitchingPoint returns the obstacle where the current variant started following.
func (f *Factory) SwitchingPoint() (game.Coordinate, bool) {
	return f.switchingPoint, f.hasSwitchingPoint
}

// SearchingForTurn reports whether the loop was detected and a turning point is being searched.
func (f *Factory) SearchingForTurn() bool {
	return f.searchingForTurn
}

// IsPending reports whether c was seen on the untracked side and still needs following.
func (f *Factory) IsPending(c game.Coordinate) bool {
	return f.pending.Has(c)
}

// IsTagged reports whether c was already followed.
func (f *Factory) IsTagged(c game.Coordinate) bool {
	return f.tagged.Has(c)
}

// PendingCount returns the number of pending obstacles.
func (f *Factory) PendingCount() int {
	return f.pending.Size()
}

// TaggedCount returns the number of tagged obstacles.
func (f *Factory) TaggedCount() int {
	return f.tagged.Size()
}

// Pending returns the pending obstacles in row-major order.
func (f *Factory) Pending() []game.Coordinate {
	return sorted(f.pending)
}

// Tagged returns the tagged obstacles in row-major order.
func (f *Factory) Tagged() []game.Coordinate {
	return sorted(f.tagged)
}

func sorted(set mapset.Set[game.Coordinate]) []game.Coordinate {
	out := make([]game.Coordinate, 0, set.Size())
	set.Each(func(c game.Coordinate) {
		out = append(out, c)
	})
	slices.SortFunc(out, func(a, b game.Coordinate) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	return out
}
