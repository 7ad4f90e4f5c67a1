package router

import (
	"hash/fnv"
	"strings"
)

const slotAttr = `data-slot="`

// slots holds the content of every data-slot element in a render, split
// into plain-text slots and slots whose content carries markup.
type slots struct {
	text map[string]string
	html map[string]string
}

func (s slots) empty() bool {
	return len(s.text) == 0 && len(s.html) == 0
}

// extractSlots finds elements marked with data-slot and returns their inner
// content. Nested slots are reported on their own and inside their parent.
func extractSlots(doc string) slots {
	out := slots{
		text: make(map[string]string),
		html: make(map[string]string),
	}

	pos := 0
	for {
		idx := strings.Index(doc[pos:], slotAttr)
		if idx < 0 {
			break
		}
		attrAt := pos + idx
		idStart := attrAt + len(slotAttr)
		idLen := strings.IndexByte(doc[idStart:], '"')
		if idLen < 0 {
			break
		}
		id := doc[idStart : idStart+idLen]
		pos = idStart + idLen

		tagStart := strings.LastIndexByte(doc[:attrAt], '<')
		if tagStart < 0 {
			continue
		}
		tag := tagName(doc[tagStart+1:])
		if tag == "" {
			continue
		}

		gt := strings.IndexByte(doc[pos:], '>')
		if gt < 0 {
			break
		}
		contentStart := pos + gt + 1
		contentEnd := matchingClose(doc, tag, contentStart)
		if contentEnd < 0 {
			continue
		}

		content := strings.TrimSpace(doc[contentStart:contentEnd])
		if strings.ContainsAny(content, "<>") {
			out.html[id] = content
		} else {
			out.text[id] = content
		}
	}
	return out
}

func tagName(s string) string {
	end := strings.IndexAny(s, " \t\n\r/>")
	if end < 0 {
		return ""
	}
	return s[:end]
}

// matchingClose returns the index of the close tag that balances an open
// tag whose content starts at from, or -1.
func matchingClose(doc, tag string, from int) int {
	open := "<" + tag
	closing := "</" + tag
	depth := 1
	pos := from

	for pos < len(doc) {
		nextClose := strings.Index(doc[pos:], closing)
		if nextClose < 0 {
			return -1
		}
		nextClose += pos

		nextOpen := strings.Index(doc[pos:nextClose], open)
		if nextOpen >= 0 {
			after := pos + nextOpen + len(open)
			if after < len(doc) && strings.IndexByte(" \t\n\r>/", doc[after]) >= 0 {
				depth++
			}
			pos = after
			continue
		}

		depth--
		if depth == 0 {
			return nextClose
		}
		pos = nextClose + len(closing)
	}
	return -1
}

func hashSlot(content string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return h.Sum64()
}

// slotHashes tracks what the client last received for each slot.
type slotHashes map[string]uint64

// changed returns the slots whose content differs from the last send and
// records the new hashes.
func (h slotHashes) changed(current slots) slots {
	out := slots{
		text: make(map[string]string),
		html: make(map[string]string),
	}
	diff := func(src, dst map[string]string) {
		for id, content := range src {
			sum := hashSlot(content)
			if prev, ok := h[id]; ok && prev == sum {
				continue
			}
			h[id] = sum
			dst[id] = content
		}
	}
	diff(current.text, out.text)
	diff(current.html, out.html)
	return out
}
