package metrics

// Platform 推廣平台代碼。
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformX         Platform = "x"
	PlatformThreads   Platform = "threads"
)

// PlatformInfo 平台目錄項目。
type PlatformInfo struct {
	ID          Platform `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var platformCatalog = []PlatformInfo{
	{ID: PlatformTikTok, Name: "TikTok", Description: "Short vertical videos"},
	{ID: PlatformYouTube, Name: "YouTube Shorts", Description: "Short clips on YouTube"},
	{ID: PlatformInstagram, Name: "Instagram", Description: "Reels and stories"},
	{ID: PlatformX, Name: "X (Twitter)", Description: "Posts and video threads"},
	{ID: PlatformThreads, Name: "Threads", Description: "Text and media threads"},
}

// Platforms 回傳平台目錄的副本。
func Platforms() []PlatformInfo {
	out := make([]PlatformInfo, len(platformCatalog))
	copy(out, platformCatalog)
	return out
}

// LookupPlatform 依代碼查詢平台。
func LookupPlatform(id Platform) (PlatformInfo, bool) {
	for _, p := range platformCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return PlatformInfo{}, false
}
