package transcript

// Message is one speaker turn of a transcript.
type Message struct {
	Role    string
	Content string
}

// Roles returns the distinct roles in order of first appearance.
func Roles(messages []Message) []string {
	seen := make(map[string]bool, 4)
	var roles []string
	for _, m := range messages {
		if seen[m.Role] {
			continue
		}
		seen[m.Role] = true
		roles = append(roles, m.Role)
	}
	return roles
}
