package llm

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	// bedtimeToneHint steers every TTS request toward a calm read.
	bedtimeToneHint = "warm, gentle and unhurried, like a bedtime story"

	wavHeaderSize    = 44
	defaultPCMBits   = 16
	defaultPCMRate   = 24000
	wordsPerMinute   = 150
	wavMimeType      = "audio/wav"
	rawPCMMimePrefix = "audio/L"
)

// ErrNoAudio is returned when the TTS stream ends without any audio parts.
var ErrNoAudio = errors.New("TTS returned no audio data")

// Synthesize reads text aloud with the named prebuilt voice. Gemini streams
// raw PCM chunks, which are joined and wrapped in a WAV container.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	script := fmt.Sprintf("[tone: %s] %s", bedtimeToneHint, text)
	contents := []*genai.Content{genai.NewContentFromText(script, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr[float32](1),
		ResponseModalities: []string{"audio"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	log.Debug().
		Str("model", c.modelTTS).
		Str("voice", voice).
		Int("text_length", len(text)).
		Msg("Requesting narration audio")

	var pcm bytes.Buffer
	mime := ""
	for resp, err := range c.genai.Models.GenerateContentStream(ctx, c.modelTTS, contents, config) {
		if err != nil {
			return nil, fmt.Errorf("TTS stream: %w", err)
		}
		for _, blob := range inlineAudio(resp) {
			pcm.Write(blob.Data)
			if blob.MIMEType != "" {
				mime = blob.MIMEType
			}
		}
	}
	if pcm.Len() == 0 {
		return nil, ErrNoAudio
	}

	data := pcm.Bytes()
	if mime == "" || strings.HasPrefix(mime, rawPCMMimePrefix) {
		data = wrapPCM(data, parsePCMFormat(mime))
		mime = wavMimeType
	}

	audio := &Audio{
		Data:     bytes.NewReader(data),
		Size:     int64(len(data)),
		Duration: float64(len(strings.Fields(text))) * 60 / wordsPerMinute,
		Model:    c.modelTTS,
		MimeType: mime,
	}
	log.Info().
		Int64("audio_size_bytes", audio.Size).
		Str("voice", voice).
		Str("mime_type", audio.MimeType).
		Msg("Narration audio ready")
	return audio, nil
}

// inlineAudio returns the non-empty inline blobs of the first candidate.
func inlineAudio(resp *genai.GenerateContentResponse) []*genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil
	}
	var blobs []*genai.Blob
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			blobs = append(blobs, part.InlineData)
		}
	}
	return blobs
}

// pcmFormat describes mono little-endian PCM.
type pcmFormat struct {
	bits int
	rate int
}

// parsePCMFormat reads sample width and rate from MIME types like
// "audio/L16;codec=pcm;rate=24000". Missing or bad values keep the defaults.
func parsePCMFormat(mime string) pcmFormat {
	f := pcmFormat{bits: defaultPCMBits, rate: defaultPCMRate}
	for _, field := range strings.Split(mime, ";") {
		field = strings.TrimSpace(field)
		key, val, ok := strings.Cut(field, "=")
		switch {
		case ok && strings.EqualFold(key, "rate"):
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				f.rate = n
			}
		case strings.HasPrefix(field, rawPCMMimePrefix):
			if n, err := strconv.Atoi(field[len(rawPCMMimePrefix):]); err == nil && n > 0 {
				f.bits = n
			}
		}
	}
	return f
}

// wrapPCM prepends a canonical 44-byte RIFF/WAVE header to mono PCM samples.
func wrapPCM(samples []byte, f pcmFormat) []byte {
	blockAlign := f.bits / 8
	out := make([]byte, wavHeaderSize+len(samples))
	le := binary.LittleEndian

	copy(out[0:], "RIFF")
	le.PutUint32(out[4:], uint32(wavHeaderSize-8+len(samples)))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	le.PutUint32(out[16:], 16) // fmt chunk size
	le.PutUint16(out[20:], 1)  // PCM
	le.PutUint16(out[22:], 1)  // mono
	le.PutUint32(out[24:], uint32(f.rate))
	le.PutUint32(out[28:], uint32(f.rate*blockAlign))
	le.PutUint16(out[32:], uint16(blockAlign))
	le.PutUint16(out[34:], uint16(f.bits))
	copy(out[36:], "data")
	le.PutUint32(out[40:], uint32(len(samples)))
	copy(out[wavHeaderSize:], samples)
	return out
}
