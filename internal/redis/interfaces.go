package redis

import "rydes/internal/repository"

// Ensure concrete types implement interfaces.
var (
	_ repository.RideRepository = (*RideStore)(nil)
)
