package model

// StoryGenre is the content category of a lesson. Educational requests get
// the explain/answer personas, everything else the narrative ones.
type StoryGenre string

const (
	GenreEducational StoryGenre = "educational"
	GenreFantasy     StoryGenre = "fantasy"
	GenreSciFi       StoryGenre = "sci-fi"
	GenreFolktale    StoryGenre = "folktale"
	GenreMystery     StoryGenre = "mystery"
	GenreAdventure   StoryGenre = "adventure"
)

type AgeGroup string

const (
	AgeGroupChild AgeGroup = "child" // 5-10, simple and playful
	AgeGroupTeen  AgeGroup = "teen"  // 11-17
	AgeGroupAdult AgeGroup = "adult" // 18+, expert and detailed
)

type ImageStyle string

const (
	StyleDigitalArt  ImageStyle = "digital_art"
	StyleRealistic   ImageStyle = "realistic"
	StyleCartoon     ImageStyle = "cartoon"
	StyleWatercolor  ImageStyle = "watercolor"
	StyleOilPainting ImageStyle = "oil_painting"
	StyleSketch      ImageStyle = "sketch"
	StyleRetro       ImageStyle = "retro"
)

type MediaType string

const (
	MediaTextOnly      MediaType = "text_only"
	MediaTextWithImage MediaType = "text_with_image"
	MediaVideo         MediaType = "video"
)

type VideoFormat string

const (
	VideoFormatMP4 VideoFormat = "mp4"
	VideoFormatMOV VideoFormat = "mov"
)

// ConversationTurn is one prior exchange passed back to the text generator
// as follow-up context. Role is "user" or "ai".
type ConversationTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// StoryRequest is the input to one generation cycle.
// VideoFormat is only meaningful when MediaType is video; ConversationHistory
// only when IsFollowUp is set.
type StoryRequest struct {
	Topic               string             `json:"topic"`
	Genre               StoryGenre         `json:"genre"`
	AgeGroup            AgeGroup           `json:"age_group"`
	ImageStyle          ImageStyle         `json:"image_style"`
	MediaType           MediaType          `json:"media_type"`
	VideoFormat         VideoFormat        `json:"video_format,omitempty"`
	Language            string             `json:"language"`
	CulturalContext     bool               `json:"cultural_context"`
	IsFollowUp          bool               `json:"is_follow_up,omitempty"`
	ConversationHistory []ConversationTurn `json:"conversation_history,omitempty"`
}

// GeneratedStory is the merged output of one generation cycle. Image and
// audio may be absent on partial success; a video request always carries
// either a video URL or a VideoError explanation.
type GeneratedStory struct {
	Title              string      `json:"title"`
	Content            string      `json:"content"`
	ImageURL           string      `json:"image_url,omitempty"`
	AudioURL           string      `json:"audio_url,omitempty"`
	VideoURL           string      `json:"video_url,omitempty"`
	ImagePrompt        string      `json:"image_prompt,omitempty"` // kept for regeneration
	VideoError         string      `json:"video_error,omitempty"`
	VideoFormat        VideoFormat `json:"video_format,omitempty"`
	VideoSimulated     bool        `json:"video_simulated,omitempty"`
	NextStepSuggestion string      `json:"next_step_suggestion,omitempty"`
}
