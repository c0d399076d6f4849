package analysis

import "strings"

// camelotMap translates "<key> <scale>" note names into Camelot wheel
// positions (1–12 plus A for minor, B for major).
var camelotMap = map[string]string{
	"B major": "1B", "F# major": "2B", "C# major": "3B", "G# major": "4B",
	"D# major": "5B", "A# major": "6B", "F major": "7B", "C major": "8B",
	"G major": "9B", "D major": "10B", "A major": "11B", "E major": "12B",
	"Db major": "3B", "Ab major": "4B", "Eb major": "5B", "Bb major": "6B",
	"G# minor": "1A", "D# minor": "2A", "A# minor": "3A", "F minor": "4A",
	"C minor": "5A", "G minor": "6A", "D minor": "7A", "A minor": "8A",
	"E minor": "9A", "B minor": "10A", "F# minor": "11A", "C# minor": "12A",
	"Eb minor": "2A", "Bb minor": "3A",
}

// Camelot converts a detected key and scale (e.g. "C", "major") to the
// Camelot notation, or UnknownKey when there is no mapping.
func Camelot(key, scale string) string {
	if key == "" || scale == "" {
		return UnknownKey
	}
	key = strings.ReplaceAll(key, "sharp", "#")
	if c, ok := camelotMap[key+" "+scale]; ok {
		return c
	}
	return UnknownKey
}
