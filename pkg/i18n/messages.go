// Package i18n holds the Japanese message catalog for every user-facing
// toast, label and notification line rendered by the portals.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a catalog entry.
type Key string

const (
	CheckinSuccess         Key = "checkin.success"
	CheckinSuccessNotified Key = "checkin.success.notified"
	CheckinSuccessDetail   Key = "checkin.success.detail"
	CheckinFailed          Key = "checkin.failed"
	CheckinStoreNotFound   Key = "checkin.store_not_found"
	CheckinStoreRequired   Key = "checkin.store_required"
	CheckinActiveLabel     Key = "checkin.active_label"
	CheckinAlreadyActive   Key = "checkin.already_active"
	CheckoutSuccess        Key = "checkout.success"
	CheckoutFailed         Key = "checkout.failed"
	ScannerStale           Key = "scanner.stale"

	BottleBatchSaved   Key = "bottle.batch.saved"
	BottleBatchFailed  Key = "bottle.batch.failed"
	BottleUpdated      Key = "bottle.updated"
	BottleUpdateFailed Key = "bottle.update_failed"
	BottleOutOfRange   Key = "bottle.out_of_range"
	BottleRefilled     Key = "bottle.refilled"
	BottleRefillFailed Key = "bottle.refill_failed"
	BottleAdded        Key = "bottle.added"
	BottleAddFailed    Key = "bottle.add_failed"
	BottleTypeRequired Key = "bottle.type_required"

	GiftSent           Key = "gift.sent"
	GiftFailed         Key = "gift.failed"
	GiftReasonRequired Key = "gift.reason_required"
	GiftPctInvalid     Key = "gift.pct_invalid"

	ShareCreated Key = "share.created"
	ShareFailed  Key = "share.failed"
	ShareEnded   Key = "share.ended"

	AmigoSearchRequired Key = "amigo.search_required"
	AmigoRequested      Key = "amigo.requested"
	AmigoAccepted       Key = "amigo.accepted"
	AmigoQRRefreshed    Key = "amigo.qr_refreshed"
	AmigoQRInvalid      Key = "amigo.qr_invalid"
	AmigoScanned        Key = "amigo.scanned"

	MemoRequired Key = "memo.required"
	MemoAdded    Key = "memo.added"
	MemoFailed   Key = "memo.failed"

	PostTitleRequired Key = "post.title_required"
	PostBodyRequired  Key = "post.body_required"
	PostTypeInvalid   Key = "post.type_invalid"
	PostCreated       Key = "post.created"
	PostUpdated       Key = "post.updated"
	PostDeleted       Key = "post.deleted"

	MasterNameRequired Key = "master.name_required"
	MasterSaved        Key = "master.saved"
	MasterDeleted      Key = "master.deleted"

	StaffNameRequired   Key = "staff.name_required"
	StaffPINRequired    Key = "staff.pin_required"
	StaffRoleInvalid    Key = "staff.role_invalid"
	StaffCreated        Key = "staff.created"
	StaffUpdated        Key = "staff.updated"
	StaffActivated      Key = "staff.activated"
	StaffDeactivated    Key = "staff.deactivated"
	StaffDeleted        Key = "staff.deleted"
	StaffSelfDelete     Key = "staff.self_delete"
	StaffSelfDeactivate Key = "staff.self_deactivate"

	SettingsSaved Key = "settings.saved"
	ProfileSaved  Key = "profile.saved"
	ProfileFailed Key = "profile.failed"

	AuthLoginFailed     Key = "auth.login_failed"
	AuthFieldsRequired  Key = "auth.fields_required"
	AuthRateLimited     Key = "auth.rate_limited"
	ErrorGeneric        Key = "error.generic"
	ErrorUnauthorized   Key = "error.unauthorized"
	ErrorForbidden      Key = "error.forbidden"
	ErrorNotFound       Key = "error.not_found"
	ErrorNetwork        Key = "error.network"
	ErrorLoadFailed     Key = "error.load_failed"
	ValidationFailed    Key = "validation.failed"
	NotifyAmigoCheckin  Key = "notify.amigo_checkin"
	NotifyStorePost     Key = "notify.store_post"
	NotifyBottleShare   Key = "notify.bottle_share"
	NotifyBottleGift    Key = "notify.bottle_gift"
	NotifyAmigoRequest  Key = "notify.amigo_request"
	NotifyFallback      Key = "notify.fallback"
	DefaultUserName     Key = "default.user"
	DefaultStoreName    Key = "default.store"
	DefaultPostContent  Key = "default.post"
	DefaultGiftReason   Key = "default.gift_reason"
	TimeJustNow         Key = "time.just_now"
	TimeMinutesAgo      Key = "time.minutes_ago"
	TimeHoursAgo        Key = "time.hours_ago"
	TimeDaysAgo         Key = "time.days_ago"
	LabelChangeUpdate   Key = "label.change.update"
	LabelChangeRefill   Key = "label.change.refill"
	LabelChangeGift     Key = "label.change.gift"
	LabelRoleMama       Key = "label.role.mama"
	LabelRoleBartender  Key = "label.role.bartender"
	LabelPostEvent      Key = "label.post.event"
	LabelPostMemo       Key = "label.post.memo"
	LabelPostIntro      Key = "label.post.intro"
	LabelPostMessage    Key = "label.post.message"
	LabelPostStaff      Key = "label.post.staff"
	LabelAmigoPendingIn Key = "label.amigo.pending_received"
	LabelAmigoPendingUp Key = "label.amigo.pending_sent"
	LabelAmigoActive    Key = "label.amigo.active"
)

var japanese = map[Key]string{
	CheckinSuccess:         "チェックインしました",
	CheckinSuccessNotified: "チェックインしました（%d人に通知）",
	CheckinSuccessDetail:   "%sにチェックインし、%d人に通知しました",
	CheckinFailed:          "チェックインに失敗しました",
	CheckinStoreNotFound:   "店舗が見つかりません (ID: %s)",
	CheckinStoreRequired:   "店舗IDを入力してください",
	CheckinActiveLabel:     "チェックイン中",
	CheckinAlreadyActive:   "既にチェックイン中です",
	CheckoutSuccess:        "退店処理が完了しました",
	CheckoutFailed:         "退店処理に失敗しました",
	ScannerStale:           "スキャナーが停止しています。もう一度お試しください",

	BottleBatchSaved:   "%d本の残量を保存しました",
	BottleBatchFailed:  "%d本の更新に失敗しました",
	BottleUpdated:      "残量を更新しました",
	BottleUpdateFailed: "残量更新に失敗しました",
	BottleOutOfRange:   "残量は0〜%dmlの範囲で指定してください",
	BottleRefilled:     "満量に戻しました",
	BottleRefillFailed: "満量に戻せませんでした",
	BottleAdded:        "%s を追加しました",
	BottleAddFailed:    "ボトル追加に失敗しました",
	BottleTypeRequired: "酒名を入力してください",

	GiftSent:           "プレゼントを送りました",
	GiftFailed:         "プレゼントに失敗しました",
	GiftReasonRequired: "プレゼントの理由を入力してください",
	GiftPctInvalid:     "追加量は1%%以上で指定してください",

	ShareCreated: "シェアしました",
	ShareFailed:  "シェアに失敗しました",
	ShareEnded:   "シェアを終了しました",

	AmigoSearchRequired: "検索ワードを入力してください",
	AmigoRequested:      "Amigo申請しました",
	AmigoAccepted:       "承認しました",
	AmigoQRRefreshed:    "QRコードを更新しました",
	AmigoQRInvalid:      "QRコードが無効です",
	AmigoScanned:        "%sさんとAmigoになりました",

	MemoRequired: "メモを入力してください",
	MemoAdded:    "メモを追加しました",
	MemoFailed:   "メモの追加に失敗しました",

	PostTitleRequired: "イベントにはタイトルが必要です",
	PostBodyRequired:  "本文を入力してください",
	PostTypeInvalid:   "投稿タイプが不正です",
	PostCreated:       "投稿しました",
	PostUpdated:       "投稿を更新しました",
	PostDeleted:       "投稿を削除しました",

	MasterNameRequired: "酒名を入力してください",
	MasterSaved:        "ボトルマスタを登録しました",
	MasterDeleted:      "ボトルマスタを削除しました",

	StaffNameRequired:   "名前を入力してください",
	StaffPINRequired:    "PINを入力してください",
	StaffRoleInvalid:    "役割はmamaまたはbartenderです",
	StaffCreated:        "アカウントを登録しました",
	StaffUpdated:        "アカウントを更新しました",
	StaffActivated:      "%s を有効化しました",
	StaffDeactivated:    "%s を無効化しました",
	StaffDeleted:        "%s を削除しました",
	StaffSelfDelete:     "自分自身は削除できません",
	StaffSelfDeactivate: "自分自身は無効化できません",

	SettingsSaved: "設定を保存しました",
	ProfileSaved:  "プロフィールを保存しました",
	ProfileFailed: "プロフィールの保存に失敗しました",

	AuthLoginFailed:     "ログインに失敗しました",
	AuthFieldsRequired:  "必須項目を入力してください",
	AuthRateLimited:     "しばらくしてから再度お試しください",
	ErrorGeneric:        "エラーが発生しました。もう一度お試しください。",
	ErrorUnauthorized:   "ログインしてください",
	ErrorForbidden:      "この操作はママのみ可能です",
	ErrorNotFound:       "見つかりませんでした",
	ErrorNetwork:        "通信エラーが発生しました",
	ErrorLoadFailed:     "読み込みに失敗しました",
	ValidationFailed:    "入力内容を確認してください",
	NotifyAmigoCheckin:  "%sさんが%sにチェックインしました",
	NotifyStorePost:     "%sから新しい投稿: %s",
	NotifyBottleShare:   "%sさんが%sボトルを共有しました",
	NotifyBottleGift:    "%sからのプレゼント: %s",
	NotifyAmigoRequest:  "%sさんがAmigo申請しました",
	NotifyFallback:      "新しい通知",
	DefaultUserName:     "ユーザー",
	DefaultStoreName:    "店舗",
	DefaultPostContent:  "投稿",
	DefaultGiftReason:   "お礼",
	TimeJustNow:         "たった今",
	TimeMinutesAgo:      "%d分前",
	TimeHoursAgo:        "%d時間前",
	TimeDaysAgo:         "%d日前",
	LabelChangeUpdate:   "残量更新",
	LabelChangeRefill:   "満量補充",
	LabelChangeGift:     "プレゼント",
	LabelRoleMama:       "ママ",
	LabelRoleBartender:  "バーテンダー",
	LabelPostEvent:      "イベント",
	LabelPostMemo:       "メモ",
	LabelPostIntro:      "紹介",
	LabelPostMessage:    "メッセージ",
	LabelPostStaff:      "スタッフ",
	LabelAmigoPendingIn: "承認待ち",
	LabelAmigoPendingUp: "申請中",
	LabelAmigoActive:    "Amigo",
}

var printer = mustPrinter()

func mustPrinter() *message.Printer {
	builder := catalog.NewBuilder(catalog.Fallback(language.Japanese))
	for key, msg := range japanese {
		if err := builder.SetString(language.Japanese, string(key), msg); err != nil {
			panic(fmt.Sprintf("i18n: register %s: %v", key, err))
		}
	}
	return message.NewPrinter(language.Japanese, message.Catalog(builder))
}

// T renders the message registered under key with the supplied arguments.
func T(key Key, args ...any) string {
	return printer.Sprintf(string(key), args...)
}

// Has reports whether key is registered in the catalog.
func Has(key Key) bool {
	_, ok := japanese[key]
	return ok
}
