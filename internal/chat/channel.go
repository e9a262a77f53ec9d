package chat

// ChannelKey derives the deterministic two-party channel ID: the sorted
// participant IDs joined with "_". The same pair always maps to the same
// channel regardless of argument order.
func ChannelKey(idA, idB string) string {
	if idB < idA {
		idA, idB = idB, idA
	}
	return idA + "_" + idB
}
