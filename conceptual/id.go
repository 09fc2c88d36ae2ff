package conceptual

// TripID is the opaque identifier shared by every trace point of a trip.
// Ids are not guaranteed to be contiguous in a source file.
type TripID string

func (t TripID) String() string {
	return string(t)
}

func (t TripID) IsEmpty() bool {
	return t == ""
}
