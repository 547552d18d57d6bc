package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/decker502/creatures/pkg/creature"
	"github.com/decker502/creatures/pkg/types"
)

// SoundClip is a fully decoded sound effect.
// PCM holds signed 16-bit little-endian stereo samples at SampleRate.
type SoundClip struct {
	PCM        []byte
	SampleRate int
}

// ResourceManager is responsible for centralized management of creature assets.
// It loads and caches sprite images and decoded sound clips so that assets
// shared between states (for example one sprite sheet used by two attacks)
// are read from disk only once.
//
// Missing files are reported as errors by the single-file loaders. LoadFrames
// logs and skips missing frames instead, leaving the caller with a shorter
// frame sequence.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. All loading happens on the game
// goroutine before the first tick.
//
// Usage:
//
//	rm := NewResourceManager(audioContext)
//	img, err := rm.LoadImage("assets/Werewolf/Idle.png")
type ResourceManager struct {
	imageCache   map[string]*ebiten.Image // path -> Image
	imageRefs    map[string]int           // path -> outstanding LoadImage calls
	imagePaths   map[*ebiten.Image]string // Image -> path, for ReleaseImage
	soundCache   map[string]*SoundClip    // path -> decoded clip
	audioContext *audio.Context           // may be nil in headless mode
	log          *logrus.Entry
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - audioContext: The global audio context. It is only used to report the
//     output sample rate; nil is allowed when no audio is needed.
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		imageCache:   make(map[string]*ebiten.Image),
		imageRefs:    make(map[string]int),
		imagePaths:   make(map[*ebiten.Image]string),
		soundCache:   make(map[string]*SoundClip),
		audioContext: audioContext,
		log:          logrus.WithField("component", "ResourceManager"),
	}
}

// AudioContext returns the audio context passed at construction.
func (rm *ResourceManager) AudioContext() *audio.Context {
	return rm.audioContext
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
// Every successful call takes a reference that ReleaseImage gives back.
//
// Returns an error if the file cannot be opened or decoded. Never panics.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		rm.imageRefs[path]++
		return cachedImage, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	rm.imageRefs[path] = 1
	rm.imagePaths[ebitenImg] = path

	return ebitenImg, nil
}

// ReleaseImage gives back one reference taken by LoadImage.
// When the last reference is released the image is evicted from the cache
// and deallocated, so a later LoadImage of the same path reads it again.
// Images not owned by the manager are deallocated directly.
// It satisfies creature.ImageReleaser.
func (rm *ResourceManager) ReleaseImage(img types.Image) {
	ebitenImg, ok := img.(*ebiten.Image)
	if !ok || ebitenImg == nil {
		return
	}

	path, owned := rm.imagePaths[ebitenImg]
	if !owned {
		ebitenImg.Deallocate()
		return
	}

	rm.imageRefs[path]--
	if rm.imageRefs[path] > 0 {
		return
	}

	delete(rm.imageRefs, path)
	delete(rm.imagePaths, ebitenImg)
	delete(rm.imageCache, path)
	ebitenImg.Deallocate()
	rm.log.WithField("path", path).Debug("Image evicted")
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadSheet loads a sprite sheet. It satisfies entities.FrameLoader.
func (rm *ResourceManager) LoadSheet(path string) (types.Image, error) {
	img, err := rm.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ListFrameFiles lists the PNG files of a per-frame animation directory.
// The result is in directory order; callers sort it with creature.SortFramePaths.
func (rm *ResourceManager) ListFrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// LoadFrames loads the given frame files in order.
// Frames that cannot be loaded are logged and skipped.
func (rm *ResourceManager) LoadFrames(paths []string) creature.FrameSequence {
	frames := make(creature.FrameSequence, 0, len(paths))
	for _, path := range paths {
		img, err := rm.LoadImage(path)
		if err != nil {
			rm.log.WithError(err).WithField("path", path).Warn("Failed to load frame, skipping")
			continue
		}
		frames = append(frames, img)
	}
	return frames
}

// LoadSoundClip loads and fully decodes a sound effect, caching the result.
// Supported formats: WAV (.wav), MP3 (.mp3) and OGG Vorbis (.ogg).
//
// The clip keeps its native sample rate; AudioManager resamples on playback,
// which is also how pitch changes are applied.
func (rm *ResourceManager) LoadSoundClip(path string) (*SoundClip, error) {
	if clip, exists := rm.soundCache[path]; exists {
		return clip, nil
	}

	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file %s: %w", path, err)
	}

	clip, err := decodeSoundClip(bytes.NewReader(audioData), strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound %s: %w", path, err)
	}

	rm.soundCache[path] = clip
	return clip, nil
}

// MusicStream is a decoded, seekable music stream in its native sample rate.
// The stream yields signed 16-bit little-endian stereo samples.
type MusicStream interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
}

// LoadMusicStream opens a background music file for streaming playback.
// Supported formats: WAV (.wav), MP3 (.mp3) and OGG Vorbis (.ogg).
//
// The whole file is read into memory so the stream can seek without keeping
// the file open, but it is decoded lazily while playing. Streams are not
// cached: each call returns an independent stream owned by the caller.
func (rm *ResourceManager) LoadMusicStream(path string) (MusicStream, error) {
	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read music file %s: %w", path, err)
	}

	reader := bytes.NewReader(audioData)
	var stream MusicStream
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		stream, err = wav.DecodeWithoutResampling(reader)
	case ".mp3":
		stream, err = mp3.DecodeWithoutResampling(reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithoutResampling(reader)
	default:
		return nil, fmt.Errorf("unsupported music format: %s (supported: .wav, .mp3, .ogg)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode music %s: %w", path, err)
	}

	rm.log.WithField("path", path).Debug("Music stream opened")
	return stream, nil
}

func decodeSoundClip(reader io.ReadSeeker, ext string) (*SoundClip, error) {
	var stream interface {
		io.Reader
		SampleRate() int
	}

	switch ext {
	case ".wav":
		s, err := wav.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, err
		}
		stream = s
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, err
		}
		stream = s
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, err
		}
		stream = s
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .ogg)", ext)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}
	return &SoundClip{PCM: pcm, SampleRate: stream.SampleRate()}, nil
}
