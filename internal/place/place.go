// Package place holds the record shape shared by every rating source.
package place

import (
	"strings"
)

// Record is one restaurant as reported by a single rating source.
type Record struct {
	Name        string
	Street      string
	City        string
	State       string
	Zipcode     string
	Rating      float64
	ReviewCount int64
}

// Identity is what makes two records "the same place": the name and the full address.
// Rating and review count are not part of it.
type Identity struct {
	Name    string
	Street  string
	City    string
	State   string
	Zipcode string
}

func (r Record) Identity() Identity {
	return Identity{
		Name:    r.Name,
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		Zipcode: r.Zipcode,
	}
}

// SameIdentity reports whether a and b describe the same place.
func SameIdentity(a, b Record) bool {
	return a.Identity() == b.Identity()
}

// Contains reports whether any record in `list` has the identity `id`.
func Contains(list []Record, id Identity) bool {
	for _, r := range list {
		if r.Identity() == id {
			return true
		}
	}
	return false
}

// JoinKey is the key records from different sources are joined on.
//
// note: city and state are not part of the key even though they are part of Identity.
type JoinKey struct {
	Name    string
	Street  string
	Zipcode string
}

func (r Record) JoinKey() JoinKey {
	return JoinKey{
		Name:    r.Name,
		Street:  r.Street,
		Zipcode: r.Zipcode,
	}
}

// Address renders the full address the way it is sent to search services.
func (r Record) Address() string {
	return r.Street + ", " + r.City + ", " + r.State + " " + r.Zipcode
}

// ParseAddress splits a formatted address like "1 A St, Los Angeles, CA 90001, USA"
// into its parts. ok is false if any of the parts could not be found.
func ParseAddress(formatted string) (street, city, state, zipcode string, ok bool) {
	segments := strings.Split(formatted, ",")
	if len(segments) < 3 {
		return "", "", "", "", false
	}

	stateZip := strings.Fields(segments[2])
	if len(stateZip) < 2 {
		return "", "", "", "", false
	}

	street = strings.TrimSpace(segments[0])
	city = strings.TrimSpace(segments[1])
	return street, city, stateZip[0], stateZip[1], true
}
