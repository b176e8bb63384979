// Package codec names the container and elementary-stream codec tags this
// decode pipeline recognises. It is a narrowed version of a general codec
// registry: Ogg is the only container, and Theora/Vorbis are the only
// elementary codecs this pipeline bootstraps (spec.md §1 Non-goals: "no
// support for more than one video and one audio substream per file").
package codec

// Video identifies a video elementary codec.
type Video string

// Video codec constants this pipeline can bootstrap.
const (
	VideoTheora Video = "theora"
)

// Audio identifies an audio elementary codec.
type Audio string

// Audio codec constants this pipeline can bootstrap.
const (
	AudioVorbis Audio = "vorbis"
)

// Container identifies a media container format.
type Container string

// ContainerOgg is the only container this pipeline demuxes.
const ContainerOgg Container = "ogg"
