package session

import "fmt"

// LoopMode controls what happens at the end of an item.
type LoopMode int

const (
	LoopNone LoopMode = iota
	LoopSingle
	LoopAll
)

func (m LoopMode) String() string {
	switch m {
	case LoopSingle:
		return "single"
	case LoopAll:
		return "all"
	default:
		return "none"
	}
}

// Next cycles none, single, all.
func (m LoopMode) Next() LoopMode {
	return LoopMode((int(m) + 1) % 3)
}

// PlaybackSettings holds player behaviour switches.
type PlaybackSettings struct {
	SlowMotion       bool     `json:"slowMotion"`
	FastForward      bool     `json:"fastForward"`
	ReversePlayback  bool     `json:"reversePlayback"`
	Speed            float64  `json:"speed"`
	FrameStep        int      `json:"frameStep"`
	Loop             LoopMode `json:"loop"`
	AutoPlay         bool     `json:"autoPlay"`
	RememberPosition bool     `json:"rememberPosition"`
}

// DefaultPlaybackSettings returns normal speed with autoplay and resume on.
func DefaultPlaybackSettings() PlaybackSettings {
	return PlaybackSettings{Speed: 1.0, AutoPlay: true, RememberPosition: true}
}

// SetSlowMotion toggles slow motion; enabling it sets half speed.
func (p *PlaybackSettings) SetSlowMotion(on bool) {
	p.SlowMotion = on
	p.updateSpeed(on, 0.5)
}

// SetFastForward toggles fast forward; enabling it sets double speed.
func (p *PlaybackSettings) SetFastForward(on bool) {
	p.FastForward = on
	p.updateSpeed(on, 2.0)
}

// updateSpeed applies the last written mode, or the remaining one when a
// mode is switched off.
func (p *PlaybackSettings) updateSpeed(on bool, speed float64) {
	switch {
	case on:
		p.Speed = speed
	case p.SlowMotion:
		p.Speed = 0.5
	case p.FastForward:
		p.Speed = 2.0
	default:
		p.Speed = 1.0
	}
}

// Equalizer is an audio preset.
type Equalizer int

const (
	EqualizerFlat Equalizer = iota
	EqualizerBass
	EqualizerVocal
	EqualizerTreble
)

func (e Equalizer) String() string {
	switch e {
	case EqualizerBass:
		return "bass"
	case EqualizerVocal:
		return "vocal"
	case EqualizerTreble:
		return "treble"
	default:
		return "flat"
	}
}

// AudioSettings holds the audio page values.
type AudioSettings struct {
	DefaultVolume int       `json:"defaultVolume"`
	SyncOffsetMS  int       `json:"syncOffsetMs"`
	Equalizer     Equalizer `json:"equalizer"`
}

// DefaultAudioSettings returns volume 50, no offset, flat EQ.
func DefaultAudioSettings() AudioSettings {
	return AudioSettings{DefaultVolume: 50}
}

// SubtitleOverlay describes where subtitles are drawn.
type SubtitleOverlay struct {
	Enabled  bool   `json:"enabled"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Text     string `json:"text,omitempty"`
	FontSize int    `json:"fontSize"`
	Color    uint32 `json:"color"`
	Outline  bool   `json:"outline"`
}

// DefaultSubtitleOverlay returns a disabled white outlined overlay.
func DefaultSubtitleOverlay() SubtitleOverlay {
	return SubtitleOverlay{FontSize: 16, Color: 0xFFFFFFFF, Outline: true}
}

// SettingRow is one rendered line of the settings screen.
type SettingRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type settingField struct {
	label  string
	value  func(s *Session) string
	toggle func(s *Session)
}

// SettingsPageTitles names the settings pages in order.
var SettingsPageTitles = []string{"Playback", "Video", "Audio"}

var settingsPages = [][]settingField{
	{
		{
			label:  "Auto Play",
			value:  func(s *Session) string { return onOff(s.playback.AutoPlay) },
			toggle: func(s *Session) { s.playback.AutoPlay = !s.playback.AutoPlay },
		},
		{
			label:  "Remember Position",
			value:  func(s *Session) string { return onOff(s.playback.RememberPosition) },
			toggle: func(s *Session) { s.playback.RememberPosition = !s.playback.RememberPosition },
		},
		{
			label:  "Loop Mode",
			value:  func(s *Session) string { return s.playback.Loop.String() },
			toggle: func(s *Session) { s.playback.Loop = s.playback.Loop.Next() },
		},
		{
			label:  "Subtitles",
			value:  func(s *Session) string { return onOff(s.subtitle.Enabled) },
			toggle: func(s *Session) { s.subtitle.Enabled = !s.subtitle.Enabled },
		},
	},
	{
		{
			label:  "Aspect Ratio",
			value:  func(s *Session) string { return s.filter.Aspect.String() },
			toggle: func(s *Session) { s.filter.Aspect = s.filter.Aspect.Next() },
		},
		{
			label:  "Deinterlace",
			value:  func(s *Session) string { return onOff(s.filter.Deinterlace) },
			toggle: func(s *Session) { s.filter.Deinterlace = !s.filter.Deinterlace },
		},
		{
			label:  "Noise Reduction",
			value:  func(s *Session) string { return onOff(s.filter.NoiseReduction) },
			toggle: func(s *Session) { s.filter.NoiseReduction = !s.filter.NoiseReduction },
		},
		{
			label:  "Sharpness",
			value:  func(s *Session) string { return fmt.Sprintf("%d", s.filter.Sharpness) },
			toggle: func(s *Session) { s.filter.Sharpness = cycle(s.filter.Sharpness, 1, 0, 10) },
		},
	},
	{
		{
			label:  "Default Volume",
			value:  func(s *Session) string { return fmt.Sprintf("%d%%", s.audio.DefaultVolume) },
			toggle: func(s *Session) { s.audio.DefaultVolume = cycle(s.audio.DefaultVolume, 10, 0, 100) },
		},
		{
			label:  "Audio Sync",
			value:  func(s *Session) string { return fmt.Sprintf("%+d ms", s.audio.SyncOffsetMS) },
			toggle: func(s *Session) { s.audio.SyncOffsetMS = cycle(s.audio.SyncOffsetMS, 50, -200, 200) },
		},
		{
			label:  "Equalizer",
			value:  func(s *Session) string { return s.audio.Equalizer.String() },
			toggle: func(s *Session) { s.audio.Equalizer = Equalizer((int(s.audio.Equalizer) + 1) % 4) },
		},
	},
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// cycle steps v and wraps from past hi back to lo.
func cycle(v, step, lo, hi int) int {
	v += step
	if v > hi || v < lo {
		return lo
	}
	return v
}
