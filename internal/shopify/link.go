package shopify

import (
	"net/url"
	"regexp"
)

// nextLinkRe matches the rel="next" entry of a Shopify Link header and
// captures its page_info token.
var nextLinkRe = regexp.MustCompile(`<[^>]*[?&]page_info=([^&>]+)[^>]*>;\s*rel="next"`)

// nextPageInfo extracts the continuation token from a Link header.
// Returns "" when the header carries no rel="next" relation, which terminates
// pagination.
func nextPageInfo(link string) string {
	if link == "" {
		return ""
	}
	m := nextLinkRe.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	if decoded, err := url.QueryUnescape(m[1]); err == nil {
		return decoded
	}
	return m[1]
}
