// Package domain provides the shared vocabulary of the critterkeep engine.
//
// This package contains identifiers, closed enumerations, the per-account
// record and the error taxonomy. Component packages (pet, battle, market, ...)
// import domain; domain imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - game arithmetic is integer percentages
//   - Every enumeration is closed: zero value is either a real state
//     (Move's Unset) or explicitly invalid, and every switch over an
//     enumeration handles each member
//   - All JSON/YAML encodings of enumerations use lower_snake names
package domain
