package apperr

import "errors"

// Invalid is returned when the input fails domain validation.
var Invalid = errors.New("invalid input")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")

// Conflict indicates a uniqueness conflict (HTTP 409).
var Conflict = errors.New("conflict")

// AlreadyClaimed is returned when a claim loses the race for a pending
// order or the order is no longer pending.
var AlreadyClaimed = errors.New("order already claimed")

// InvalidTransition is returned when an operation is attempted from a
// status or by an agent that does not satisfy its guard.
var InvalidTransition = errors.New("invalid order transition")

// InvalidCode is returned when the presented delivery code does not match
// the order's delivery code. No state change happens on this path.
var InvalidCode = errors.New("invalid delivery code")

// AlreadyDelivered is returned when a completion attempt finds the order
// already delivered (duplicate request or lost conditional write).
var AlreadyDelivered = errors.New("order already delivered")
