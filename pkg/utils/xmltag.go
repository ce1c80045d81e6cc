package utils

import (
	"fmt"
	"strings"
)

// ParseXMLTag extracts the trimmed content of the first <tag>...</tag> pair
// in an LLM response. Models are instructed to wrap structured answers in
// XML-style tags (e.g. <subcategory_id>, <replacement>, <modelId>).
func ParseXMLTag(response, tag string) (string, error) {
	openingTag := "<" + tag + ">"
	closingTag := "</" + tag + ">"

	_, afterOpening, found := strings.Cut(response, openingTag)
	if !found {
		return "", fmt.Errorf("tag <%s> not found in response", tag)
	}

	content, _, _ := strings.Cut(afterOpening, closingTag)
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("tag <%s> not found in response", tag)
	}

	return content, nil
}
