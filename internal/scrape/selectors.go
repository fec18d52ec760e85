package scrape

import (
	"encoding/json"
	"os"

	"github.com/jonathan/forum-insights/internal/schemas"
)

// Selectors holds the ordered CSS selector chains used by the parsers. Chains
// are tried in order and the first selector that yields any matches wins;
// results are never merged across selectors in a chain.
//
// The defaults below are tuned empirically against current and legacy forum
// template generations (XenForo 1/2, vBulletin 3/4, phpBB, MyBB, SMF,
// Invision, Discourse). They are configuration data, not fixed logic: a JSON
// selector profile loaded with LoadSelectors overrides any chain without a
// rebuild when a target forum's templates drift.
type Selectors struct {
	// Listing selects post title anchors on a listing page.
	Listing []string `json:"listing,omitempty"`

	// NextPageText is the set of exact (lower-cased) anchor texts that
	// identify a "next page" link.
	NextPageText []string `json:"next_page_text,omitempty"`

	// NextPage selects structural next-page anchors. Candidates must still
	// carry an href containing the expected /page/<n> segment.
	NextPage []string `json:"next_page,omitempty"`

	// Message selects message containers on a detail page, original post first.
	Message []string `json:"message,omitempty"`

	// MessageIDPrefix is the dynamic element-id prefix scanned for when no
	// message container selector matches.
	MessageIDPrefix string `json:"message_id_prefix,omitempty"`

	// MessageBody is the bare body selector used as the final message fallback.
	MessageBody string `json:"message_body,omitempty"`

	// Body selects the content body inside a message container.
	Body []string `json:"body,omitempty"`

	// Solution selects the accepted-solution marker inside a message container.
	Solution []string `json:"solution,omitempty"`

	// Author selects the author name inside a message container.
	Author []string `json:"author,omitempty"`

	// Timestamp selects the post timestamp inside a message container.
	Timestamp []string `json:"timestamp,omitempty"`

	// LegacyContent selects a single content block when no structured
	// messages are found at all.
	LegacyContent []string `json:"legacy_content,omitempty"`
}

// DefaultSelectors returns the built-in selector chains.
func DefaultSelectors() *Selectors {
	return &Selectors{
		Listing: []string{
			"div.structItem-title a",              // XenForo 2
			"h3.title a",                          // XenForo 1
			"a.topictitle",                        // phpBB
			".threadtitle a",                      // vBulletin 4
			"a[id^='thread_title_']",              // vBulletin 3
			"tr.inline_row .subject_new a",        // MyBB, unread threads
			"tr.inline_row .subject_old a",        // MyBB, read threads
			"li.ipsDataItem .ipsDataItem_title a", // Invision Community
			"tr.topic-list-item a.title",          // Discourse basic-HTML view
		},
		NextPageText: []string{"next»", "next", "»", "next page"},
		NextPage: []string{
			"a.pageNav-jump--next",
			"a[rel='next']",
		},
		Message: []string{
			"article.message",      // XenForo 2
			"li.message",           // XenForo 1
			"li.postcontainer",     // vBulletin 4
			"div.post.has-profile", // phpBB 3.2+
			"div.post_wrapper",     // SMF
			"article.ipsComment",   // Invision Community
		},
		MessageIDPrefix: "post-",
		MessageBody:     "div.message-body",
		Body: []string{
			"div.message-body .bbWrapper",
			"div.bbWrapper",
			"div.messageContent article",
			"div.postbody .content",
			"div.post_body",
			"div.ipsType_richText",
		},
		Solution: []string{
			".message-solution",
			".bestAnswer",
			".accepted-answer",
			"span.solution-badge",
		},
		Author: []string{
			"a.username",
			"h4.message-name a",
			".message-userDetails .username",
			"a.bigusername",
			".postprofile a.username",
			".post_author strong a",
			".cAuthorPane_author a",
		},
		Timestamp: []string{
			"time[datetime]",
			"time.u-dt",
			".postDate .DateTime",
			"span.post_date",
			".ipsComment_meta time",
		},
		LegacyContent: []string{
			"div[id^='post_message_']",
			"td.post-body",
			"div.thread-content",
		},
	}
}

// LoadSelectors reads a JSON selector profile, validates it against the
// selector profile schema, and returns the defaults with every non-empty
// chain from the profile substituted in.
func LoadSelectors(path string) (*Selectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ProfileError{Path: path, Message: "failed to read profile", Cause: err}
	}

	if err := schemas.ValidateSelectorProfile(string(data)); err != nil {
		return nil, &ProfileError{Path: path, Message: "profile failed schema validation", Cause: err}
	}

	var profile Selectors
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, &ProfileError{Path: path, Message: "failed to parse profile JSON", Cause: err}
	}

	return DefaultSelectors().merge(&profile), nil
}

// merge returns a copy of s with non-empty fields of override substituted.
func (s *Selectors) merge(override *Selectors) *Selectors {
	result := *s
	if len(override.Listing) > 0 {
		result.Listing = override.Listing
	}
	if len(override.NextPageText) > 0 {
		result.NextPageText = override.NextPageText
	}
	if len(override.NextPage) > 0 {
		result.NextPage = override.NextPage
	}
	if len(override.Message) > 0 {
		result.Message = override.Message
	}
	if override.MessageIDPrefix != "" {
		result.MessageIDPrefix = override.MessageIDPrefix
	}
	if override.MessageBody != "" {
		result.MessageBody = override.MessageBody
	}
	if len(override.Body) > 0 {
		result.Body = override.Body
	}
	if len(override.Solution) > 0 {
		result.Solution = override.Solution
	}
	if len(override.Author) > 0 {
		result.Author = override.Author
	}
	if len(override.Timestamp) > 0 {
		result.Timestamp = override.Timestamp
	}
	if len(override.LegacyContent) > 0 {
		result.LegacyContent = override.LegacyContent
	}
	return &result
}
