package models

// Plan is the structured creative plan for one short-form video: hooks to
// choose from, timed caption beats, a voiceover script with inline pause
// markers of the form <#0.3#>, and posting metadata.
type Plan struct {
	Format          string   `json:"format"`
	Hooks           []string `json:"hooks"`
	ChosenHook      string   `json:"chosen_hook"`
	Beats           []Beat   `json:"beats"`
	VoiceoverScript string   `json:"voiceover_script"`
	Caption         string   `json:"caption"`
	Hashtags        []string `json:"hashtags"`
	RenderSpec      string   `json:"render_spec"`
}
