package entities

import (
	"strings"

	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
)

type ContentKind string

const (
	ContentKindPost    ContentKind = "Post"
	ContentKindComment ContentKind = "Comment"
	ContentKindMessage ContentKind = "Message"
	ContentKindProfile ContentKind = "Profile"
)

func ParseContentKind(raw string) (ContentKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "post":
		return ContentKindPost, true
	case "comment":
		return ContentKindComment, true
	case "message":
		return ContentKindMessage, true
	case "profile":
		return ContentKindProfile, true
	default:
		return "", false
	}
}

// ContentRef identifies the moderated document. The set of implementations is
// closed: PostRef, CommentRef, MessageRef and ProfileRef.
type ContentRef interface {
	Kind() ContentKind
	ID() string
	contentRef()
}

type PostRef struct{ PostID string }
type CommentRef struct{ CommentID string }
type MessageRef struct{ MessageID string }
type ProfileRef struct{ ProfileID string }

func (r PostRef) Kind() ContentKind    { return ContentKindPost }
func (r PostRef) ID() string           { return r.PostID }
func (PostRef) contentRef()            {}
func (r CommentRef) Kind() ContentKind { return ContentKindComment }
func (r CommentRef) ID() string        { return r.CommentID }
func (CommentRef) contentRef()         {}
func (r MessageRef) Kind() ContentKind { return ContentKindMessage }
func (r MessageRef) ID() string        { return r.MessageID }
func (MessageRef) contentRef()         {}
func (r ProfileRef) Kind() ContentKind { return ContentKindProfile }
func (r ProfileRef) ID() string        { return r.ProfileID }
func (ProfileRef) contentRef()         {}

// NewContentRef builds the variant for kind. Both parts are required.
func NewContentRef(kind ContentKind, id string) (ContentRef, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domainerrors.ErrValidation
	}
	switch kind {
	case ContentKindPost:
		return PostRef{PostID: id}, nil
	case ContentKindComment:
		return CommentRef{CommentID: id}, nil
	case ContentKindMessage:
		return MessageRef{MessageID: id}, nil
	case ContentKindProfile:
		return ProfileRef{ProfileID: id}, nil
	default:
		return nil, domainerrors.ErrValidation
	}
}

// ParseContentRef accepts the wire pair (contentType, contentId).
func ParseContentRef(rawKind string, id string) (ContentRef, error) {
	kind, ok := ParseContentKind(rawKind)
	if !ok {
		return nil, domainerrors.ErrValidation
	}
	return NewContentRef(kind, id)
}

// ContentSnapshot is the copy of the submitted content kept for review.
type ContentSnapshot struct {
	Text      string
	ImageURLs []string
	VideoURLs []string
}

func (s ContentSnapshot) IsEmpty() bool {
	return strings.TrimSpace(s.Text) == "" && len(s.ImageURLs) == 0 && len(s.VideoURLs) == 0
}
