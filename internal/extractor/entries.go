package extractor

import "regexp"

// splitEntries cuts a sub-block into raw entries, one per declaration line,
// each carrying any block comments directly in front of it.
func splitEntries(subblock string, entryPattern *regexp.Regexp) []string {
	if subblock == "" {
		return nil
	}
	return entryPattern.FindAllString(subblock, -1)
}

func splitParameterEntries(subblock string) []string {
	return splitEntries(subblock, parameterEntryPattern)
}

func splitPortEntries(subblock string) []string {
	return splitEntries(subblock, portEntryPattern)
}
