// Package domain contains core concepts of the direct messaging system.
// This file defines participant references and their display profile.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// UserRef points at a participant together with its display information.
// Name and AvatarRef are resolved at read time and may be empty when the
// profile can no longer be found.
type UserRef struct {
	ID        string
	Name      string
	AvatarRef string
}

// Profile is what the profile lookup returns for a user id.
type Profile struct {
	Name      string
	AvatarRef string
}

func (p Profile) Ref(userID string) UserRef {
	return UserRef{ID: userID, Name: p.Name, AvatarRef: p.AvatarRef}
}

// User is a directory entry for a participant.
type User struct {
	ID        string
	Name      string
	AvatarRef string
	CreatedAt time.Time
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, AvatarRef: u.AvatarRef}
}
