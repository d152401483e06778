package slug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baanlist-dev/baanlist/internal/models"
)

// latinCharMap maps the accented Latin characters we expect in listing
// titles to plain ASCII. Anything not listed, including Thai script,
// passes through and is handled by the non-alphanumeric collapse.
var latinCharMap = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ä': "a", 'æ': "ae", 'å': "a", 'ã': "a", 'ā': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ē': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ī': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'ö': "o", 'ø': "o", 'ō': "o", 'õ': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ū': "u",
	'ñ': "n", 'ç': "c", 'ß': "ss",
	'ý': "y", 'ỳ': "y", 'ÿ': "y",
}

func replaceAccents(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for _, r := range value {
		if mapped, ok := latinCharMap[r]; ok {
			b.WriteString(mapped)
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Slugify converts display text into a lowercase, hyphen-delimited,
// URL-safe token. Input that carries no Latin letters or digits
// collapses to the empty string; callers substitute their own fallback.
func Slugify(value string) string {
	if value == "" {
		return ""
	}

	normalized := strings.ToLower(replaceAccents(value))
	normalized = strings.NewReplacer("'", "", "`", "").Replace(normalized)
	normalized = strings.ReplaceAll(normalized, "&", " and ")

	var b strings.Builder
	b.Grow(len(normalized))

	lastHyphen := false

	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// fallbackToken is used when a property has no sluggable title at all,
// which is common for Thai-only listings.
const fallbackToken = "room"

// BuildPropertySlug derives the human-readable URL segment for a
// property. The numeric id suffix is the authoritative lookup key; the
// text before it is decorative.
func BuildPropertySlug(p models.Property) string {
	base := p.SlugEN
	if base == "" {
		base = p.TitleEN
	}
	if base == "" {
		base = p.TitleTH
	}
	if base == "" {
		base = fallbackToken
	}

	s := Slugify(base)
	if s == "" {
		s = fallbackToken
	}

	return fmt.Sprintf("%s-%d", s, p.ID)
}

// BuildPropertyPath returns the canonical path for a property:
// /projects/{project_slug}/{type}/{slug}-{id}.
func BuildPropertyPath(p models.Property) string {
	return fmt.Sprintf("/projects/%s/%s/%s", p.ProjectSlug, p.Type, BuildPropertySlug(p))
}

// ParseListingID extracts the trailing id from a room segment such as
// "riverside-suite-7". The human-readable prefix is discarded.
func ParseListingID(segment string) (uint, bool) {
	idx := strings.LastIndex(segment, "-")
	raw := segment

	if idx >= 0 {
		raw = segment[idx+1:]
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
