package booking

import "slices"

// Default calendar bounds
const (
	DefaultDays         = 100
	DefaultMinOccupancy = 125
	DefaultMaxOccupancy = 300
)

// Calendar describes the visiting days and the occupancy bounds every day must respect
type Calendar struct {
	// Days is the number of visiting days, numbered 1..Days
	Days int

	// MinOccupancy is the minimum number of people that must visit on each day
	MinOccupancy int

	// MaxOccupancy is the maximum number of people allowed to visit on each day
	MaxOccupancy int
}

// DefaultCalendar returns the 100 day calendar with 125..300 people per day
func DefaultCalendar() Calendar {
	return Calendar{
		Days:         DefaultDays,
		MinOccupancy: DefaultMinOccupancy,
		MaxOccupancy: DefaultMaxOccupancy,
	}
}

// IsValidDay returns true if day falls within 1..Days
func (c Calendar) IsValidDay(day int) bool {
	return day >= 1 && day <= c.Days
}

// Occupancy holds the number of people booked per day.
// Index 0 is unused so that occ[day] reads naturally for days 1..Days.
type Occupancy []int

// NewOccupancy returns a zeroed occupancy vector for the given number of days
func NewOccupancy(days int) Occupancy {
	return make(Occupancy, days+1)
}

// Days returns the number of days covered by the vector
func (o Occupancy) Days() int {
	return len(o) - 1
}

// Total returns the number of people booked across all days
func (o Occupancy) Total() int {
	total := 0
	for day := 1; day < len(o); day++ {
		total += o[day]
	}
	return total
}

// Clone returns an independent copy of the vector
func (o Occupancy) Clone() Occupancy {
	return slices.Clone(o)
}

// Group is a family (or party) that visits together on a single day
type Group struct {
	// ID identifies the group (family_id in the input data)
	ID int

	// Wishlist contains the preferred days, ranked from most to least wanted
	Wishlist []int

	// Size is the number of people in the group
	Size int

	assignedDay int
}

// NewGroup creates an unassigned group
func NewGroup(id int, wishlist []int, size int) *Group {
	return &Group{
		ID:       id,
		Wishlist: wishlist,
		Size:     size,
	}
}

// CloneGroups returns unassigned copies of groups so each strategy run starts clean
func CloneGroups(groups []*Group) []*Group {
	clones := make([]*Group, len(groups))
	for i, group := range groups {
		clones[i] = NewGroup(group.ID, slices.Clone(group.Wishlist), group.Size)
	}
	return clones
}

// AssignedDay returns the assigned day and whether the group has been assigned
func (g *Group) AssignedDay() (int, bool) {
	return g.assignedDay, g.assignedDay != 0
}

// IsAssigned returns true once the group has a day
func (g *Group) IsAssigned() bool {
	return g.assignedDay != 0
}

// Rank returns the position of day in the wishlist, or OffWishlist if absent
func (g *Group) Rank(day int) int {
	return slices.Index(g.Wishlist, day)
}

// Wishes returns true if day appears anywhere in the wishlist
func (g *Group) Wishes(day int) bool {
	return slices.Contains(g.Wishlist, day)
}

// PreferenceCost evaluates the cost of the group's assigned day.
// An unassigned group is costed as off-wishlist.
func (g *Group) PreferenceCost() int {
	if !g.IsAssigned() {
		return PreferenceCost(OffWishlist, g.Size)
	}
	return g.EvaluateDay(g.assignedDay)
}

// EvaluateDay evaluates the preference cost of assigning day to the group
func (g *Group) EvaluateDay(day int) int {
	return PreferenceCost(g.Rank(day), g.Size)
}

// Assign sets the group's day. Assigning the same day again is a no-op;
// assigning a different day returns ErrAlreadyAssigned.
func (g *Group) Assign(day int) error {
	if day <= 0 {
		return ErrDayOutOfRange
	}
	if g.IsAssigned() && g.assignedDay != day {
		return ErrAlreadyAssigned
	}
	g.assignedDay = day
	return nil
}

// PlacementKind distinguishes wishlist placements from forced ones
type PlacementKind int

const (
	// PlacementWish means the group got one of its wishlist days
	PlacementWish PlacementKind = iota

	// PlacementForced means the group got a day absent from its wishlist
	PlacementForced
)

func (k PlacementKind) String() string {
	switch k {
	case PlacementWish:
		return "wish"
	case PlacementForced:
		return "forced"
	default:
		return "unknown"
	}
}

// Placement records how a group was placed, decided once at assignment time
type Placement struct {
	Day  int
	Kind PlacementKind

	// Rank is the wishlist rank of Day, OffWishlist for forced placements
	Rank int
}

// placementFor builds the tagged placement for a group on day
func placementFor(group *Group, day int) Placement {
	rank := group.Rank(day)
	if rank == OffWishlist {
		return Placement{Day: day, Kind: PlacementForced, Rank: OffWishlist}
	}
	return Placement{Day: day, Kind: PlacementWish, Rank: rank}
}

// Assignment is an output record pairing a group with its day
type Assignment struct {
	FamilyID    int
	AssignedDay int
}
