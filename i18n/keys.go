package i18n

// Key names one UI string.
type Key int

const (
	AppTitle Key = iota
	SortNewest
	SortOldest
	SortHighRating
	SortLowRating
	ExportJSON
	ImportJSON
	SwitchLang
	AddReview
	EditReview
	NewReview
	ShopName
	BurgerName
	OverallRating
	Style
	Volume
	Patty
	Buns
	Sauce
	Price
	VisitDate
	Comment
	Image
	Tags
	Save
	Update
	Cancel
	Delete
	ConfirmDelete
	ImportConfirm
	ImportSuccess
	ImportFail
	ExportFail
	SaveSuccess
	UpdateSuccess
	SaveFail
	UploadFail
	DeleteFail
	CurrentImage
	Shop
	DateLabel
	NoReviews
	NotFound
	StyleLeft
	StyleRight
	VolumeLeft
	VolumeRight
	PattyLeft
	PattyRight
	BunsLeft
	BunsRight
	SauceLeft
	SauceRight

	keyCount
)

// names are the identifiers templates use to look labels up.
var names = [keyCount]string{
	AppTitle:       "appTitle",
	SortNewest:     "sortNewest",
	SortOldest:     "sortOldest",
	SortHighRating: "sortHighRating",
	SortLowRating:  "sortLowRating",
	ExportJSON:     "exportJSON",
	ImportJSON:     "importJSON",
	SwitchLang:     "switchLang",
	AddReview:      "addReview",
	EditReview:     "editReview",
	NewReview:      "newReview",
	ShopName:       "shopName",
	BurgerName:     "burgerName",
	OverallRating:  "overallRating",
	Style:          "style",
	Volume:         "volume",
	Patty:          "patty",
	Buns:           "buns",
	Sauce:          "sauce",
	Price:          "price",
	VisitDate:      "visitDate",
	Comment:        "comment",
	Image:          "image",
	Tags:           "tags",
	Save:           "save",
	Update:         "update",
	Cancel:         "cancel",
	Delete:         "delete",
	ConfirmDelete:  "confirmDelete",
	ImportConfirm:  "importConfirm",
	ImportSuccess:  "importSuccess",
	ImportFail:     "importFail",
	ExportFail:     "exportFail",
	SaveSuccess:    "saveSuccess",
	UpdateSuccess:  "updateSuccess",
	SaveFail:       "saveFail",
	UploadFail:     "uploadFail",
	DeleteFail:     "deleteFail",
	CurrentImage:   "currentImage",
	Shop:           "shop",
	DateLabel:      "dateLabel",
	NoReviews:      "noReviews",
	NotFound:       "notFound",
	StyleLeft:      "styleLeft",
	StyleRight:     "styleRight",
	VolumeLeft:     "volumeLeft",
	VolumeRight:    "volumeRight",
	PattyLeft:      "pattyLeft",
	PattyRight:     "pattyRight",
	BunsLeft:       "bunsLeft",
	BunsRight:      "bunsRight",
	SauceLeft:      "sauceLeft",
	SauceRight:     "sauceRight",
}

var english = [keyCount]string{
	AppTitle:       "🍔 BurgerLog",
	SortNewest:     "Newest Date",
	SortOldest:     "Oldest Date",
	SortHighRating: "Highest Rating",
	SortLowRating:  "Lowest Rating",
	ExportJSON:     "Export JSON",
	ImportJSON:     "Import JSON",
	SwitchLang:     "日本語へ切り替え",
	AddReview:      "Add Review",
	EditReview:     "Edit Review",
	NewReview:      "New Burger Review",
	ShopName:       "Shop Name",
	BurgerName:     "Burger Name",
	OverallRating:  "Overall Rating",
	Style:          "Style",
	Volume:         "Volume",
	Patty:          "Patty",
	Buns:           "Buns",
	Sauce:          "Sauce",
	Price:          "Price",
	VisitDate:      "Visit Date",
	Comment:        "Comment",
	Image:          "Photo",
	Tags:           "Tags",
	Save:           "Save",
	Update:         "Update",
	Cancel:         "Cancel",
	Delete:         "Delete",
	ConfirmDelete:  "Are you sure you want to delete this review?",
	ImportConfirm:  "Importing will add to current reviews. Continue?",
	ImportSuccess:  "Import successful!",
	ImportFail:     "Import failed",
	ExportFail:     "Export failed",
	SaveSuccess:    "Review saved!",
	UpdateSuccess:  "Review updated!",
	SaveFail:       "Failed to save. Please try again.",
	UploadFail:     "Failed to upload image",
	DeleteFail:     "Failed to delete",
	CurrentImage:   "Current Image:",
	Shop:           "Shop",
	DateLabel:      "Date",
	NoReviews:      "No reviews yet.",
	NotFound:       "Review not found",
	StyleLeft:      "Junk",
	StyleRight:     "Rich",
	VolumeLeft:     "Light",
	VolumeRight:    "Heavy",
	PattyLeft:      "Balanced",
	PattyRight:     "Meaty",
	BunsLeft:       "Soft",
	BunsRight:      "Hard",
	SauceLeft:      "Mild",
	SauceRight:     "Strong",
}

var japanese = [keyCount]string{
	AppTitle:       "🍔 BurgerLog",
	SortNewest:     "日付 (新しい順)",
	SortOldest:     "日付 (古い順)",
	SortHighRating: "評価 (高い順)",
	SortLowRating:  "評価 (低い順)",
	ExportJSON:     "JSONエクスポート",
	ImportJSON:     "JSONインポート",
	SwitchLang:     "Switch to English",
	AddReview:      "レビューを追加",
	EditReview:     "レビューを編集",
	NewReview:      "新規バーガーレビュー",
	ShopName:       "店名",
	BurgerName:     "バーガー名",
	OverallRating:  "総合評価",
	Style:          "スタイル",
	Volume:         "ボリューム",
	Patty:          "パティ",
	Buns:           "バンズ",
	Sauce:          "ソース",
	Price:          "価格",
	VisitDate:      "訪問日",
	Comment:        "コメント",
	Image:          "写真",
	Tags:           "タグ",
	Save:           "保存",
	Update:         "更新",
	Cancel:         "キャンセル",
	Delete:         "削除",
	ConfirmDelete:  "本当にこのレビューを削除しますか？",
	ImportConfirm:  "インポートすると現在のレビューに追加されます。続けますか？",
	ImportSuccess:  "インポートに成功しました！",
	ImportFail:     "インポートに失敗しました",
	ExportFail:     "エクスポートに失敗しました",
	SaveSuccess:    "レビューを保存しました！",
	UpdateSuccess:  "レビューを更新しました！",
	SaveFail:       "保存に失敗しました。もう一度お試しください。",
	UploadFail:     "画像のアップロードに失敗しました",
	DeleteFail:     "削除に失敗しました",
	CurrentImage:   "現在の画像:",
	Shop:           "店",
	DateLabel:      "日付",
	NoReviews:      "まだレビューがありません。",
	NotFound:       "レビューが見つかりません",
	StyleLeft:      "ジャンク",
	StyleRight:     "リッチ",
	VolumeLeft:     "軽め",
	VolumeRight:    "ヘビー",
	PattyLeft:      "バランス",
	PattyRight:     "肉肉しい",
	BunsLeft:       "ソフト",
	BunsRight:      "ハード",
	SauceLeft:      "さっぱり",
	SauceRight:     "濃厚",
}
