// Package transcript turns raw chat transcript bytes into ordered, role-tagged
// messages.
//
// Decoding tries UTF-8 (with BOM handling), then Big5, then ISO-8859-1, so it
// never fails. Segmentation scans lines for configured role prefixes such as
// "User:" or "AI："; the prefix of a message's first line becomes its role and
// every following line up to the next prefix becomes its content.
package transcript
