// Package ownerpolicy answers "may this caller touch that record?" for
// records owned by a single student (applications, tickets, messages).
//
// Authorization rules:
//   - Admins may act on any record
//   - Students may act only on records whose owner ID is their own
//   - Anonymous callers may act on nothing
package ownerpolicy

import (
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnsOrAdmin reports whether p owns the record or is an admin.
func OwnsOrAdmin(p *auth.Principal, owner primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || (p.IsStudent() && p.ID == owner)
}

// Owns reports whether p is the student who owns the record.
func Owns(p *auth.Principal, owner primitive.ObjectID) bool {
	return p != nil && p.IsStudent() && p.ID == owner
}
