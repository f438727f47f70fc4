// Package domain contains core concepts of the chat system.
// This file defines users and the token that identifies them.
// No runtime, network, or storage logic should be added here.
package domain

import "strings"

// Token is the opaque credential presented at handshake.
// It is also the identity of the user it belongs to.
type Token string

func (t Token) String() string {
	return string(t)
}

func (t Token) IsEmpty() bool {
	return strings.TrimSpace(string(t)) == ""
}

type User struct {
	Token       Token  `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}
