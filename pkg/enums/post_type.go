package enums

import "fmt"

// PostType classifies store posts.
type PostType string

const (
	PostTypeEvent   PostType = "event"
	PostTypeMemo    PostType = "memo"
	PostTypeIntro   PostType = "intro"
	PostTypeMessage PostType = "message"
	PostTypeStaff   PostType = "staff"
)

var validPostTypes = []PostType{
	PostTypeEvent,
	PostTypeMemo,
	PostTypeIntro,
	PostTypeMessage,
	PostTypeStaff,
}

func PostTypes() []PostType {
	out := make([]PostType, len(validPostTypes))
	copy(out, validPostTypes)
	return out
}

func (p PostType) String() string {
	return string(p)
}

func (p PostType) IsValid() bool {
	for _, candidate := range validPostTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresTitle reports whether posts of this type must carry a title.
func (p PostType) RequiresTitle() bool {
	return p == PostTypeEvent
}

func ParsePostType(value string) (PostType, error) {
	for _, candidate := range validPostTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post type %q", value)
}
