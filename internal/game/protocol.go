package game

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tag identifies the kind of a server-to-client protocol line.
type Tag string

const (
	TagOK    Tag = "OK"
	TagErr   Tag = "ERR"
	TagSys   Tag = "SYS"
	TagRoom  Tag = "ROOM"
	TagDesc  Tag = "DESC"
	TagSeen  Tag = "SEEN"
	TagList  Tag = "LIST"
	TagItem  Tag = "ITEM"
	TagQuest Tag = "QUEST"
)

// FormatLine renders one protocol line without the trailing newline.
// Multi-line payloads are flattened; the protocol is strictly line oriented.
func FormatLine(tag Tag, payload string) string {
	payload = strings.ReplaceAll(payload, "\r", "")
	payload = strings.ReplaceAll(payload, "\n", " ")
	if payload == "" {
		return string(tag)
	}
	return string(tag) + " " + payload
}

// FormatJSONLine renders an ITEM or QUEST line carrying a structured payload.
func FormatJSONLine(tag Tag, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(tag) + " " + string(data), nil
}

var directionAliases = map[string]bool{"N": true, "S": true, "E": true, "W": true}

// ParseCommand splits a raw input line into a verb and positional arguments.
// A line fully wrapped in double quotes is sugar for SAY with the quoted text
// as its single argument. Single-letter compass aliases expand to GO. The
// empty verb signals unusable input.
func ParseCommand(line string) (verb string, args []string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		return "SAY", []string{trimmed[1 : len(trimmed)-1]}
	}
	parts := strings.Fields(trimmed)
	verb = strings.ToUpper(parts[0])
	if directionAliases[verb] {
		return "GO", []string{verb}
	}
	return verb, parts[1:]
}

// NormalizeText prepares free text for broadcast: NFC normalisation and
// surrounding whitespace removed.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// JoinArgs rebuilds free text from already-tokenized arguments.
func JoinArgs(args []string) string {
	return strings.Join(args, " ")
}
