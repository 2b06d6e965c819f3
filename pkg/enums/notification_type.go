package enums

import "fmt"

// NotificationType tags the payload carried by a consumer notification.
type NotificationType string

const (
	NotificationTypeAmigoCheckin NotificationType = "amigo_checkin"
	NotificationTypeStorePost    NotificationType = "store_post"
	NotificationTypeBottleShare  NotificationType = "bottle_share"
	NotificationTypeBottleGift   NotificationType = "bottle_gift"
	NotificationTypeAmigoRequest NotificationType = "amigo_request"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeAmigoCheckin,
	NotificationTypeStorePost,
	NotificationTypeBottleShare,
	NotificationTypeBottleGift,
	NotificationTypeAmigoRequest,
}

// NotificationTypes lists every known type.
func NotificationTypes() []NotificationType {
	out := make([]NotificationType, len(validNotificationTypes))
	copy(out, validNotificationTypes)
	return out
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
