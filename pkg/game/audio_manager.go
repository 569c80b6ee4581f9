package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/decker502/dustreveal/pkg/config"
)

// 烟花音效参数
const (
	popDuration  = 0.18  // 秒
	popBaseFreq  = 520.0 // Hz
	popDecayRate = 22.0  // 指数衰减系数
	maxPopVoices = 4     // 同时播放的音效上限
)

// AudioManager 音频管理器
// 职责：
//   - 烟花生成时播放一个合成的短促"啪"声
//   - 应用配置中的音效开关和音量
//
// 没有音频上下文时（测试、音频初始化失败）所有播放调用都是空操作。
type AudioManager struct {
	context *audio.Context
	sound   config.SoundConfig
	pcm     []byte
	voices  []*audio.Player
	next    int
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，可为 nil
//   - sound: 音效配置
func NewAudioManager(ctx *audio.Context, sound config.SoundConfig) *AudioManager {
	am := &AudioManager{
		context: ctx,
		sound:   sound,
	}
	if ctx != nil {
		am.pcm = SynthesizePop(ctx.SampleRate(), popBaseFreq, popDuration)
	}
	return am
}

// PlayPop 播放一次烟花音效
// 返回是否实际播放
func (am *AudioManager) PlayPop() bool {
	if am.context == nil || !am.sound.Enabled || am.sound.Volume <= 0 {
		return false
	}

	player := am.voice()
	if player == nil {
		return false
	}
	player.SetVolume(am.sound.Volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[Audio] Warning: Failed to rewind pop: %v", err)
	}
	player.Play()
	return true
}

// voice 轮流复用固定数量的播放器
func (am *AudioManager) voice() *audio.Player {
	if len(am.voices) < maxPopVoices {
		player := am.context.NewPlayerFromBytes(am.pcm)
		am.voices = append(am.voices, player)
		return player
	}
	player := am.voices[am.next]
	am.next = (am.next + 1) % len(am.voices)
	return player
}

// SetSoundEnabled 开关音效
func (am *AudioManager) SetSoundEnabled(enabled bool) {
	am.sound.Enabled = enabled
	if !enabled {
		for _, p := range am.voices {
			p.Pause()
		}
	}
}

// SoundEnabled 音效是否开启
func (am *AudioManager) SoundEnabled() bool {
	return am.sound.Enabled
}

// SynthesizePop 合成一段指数衰减的正弦波
// 输出 16 位有符号小端立体声 PCM（ebiten audio 的默认格式）
func SynthesizePop(sampleRate int, freq, seconds float64) []byte {
	if sampleRate <= 0 || seconds <= 0 {
		return nil
	}
	n := int(float64(sampleRate) * seconds)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		// 频率随时间下滑，听起来更像爆裂声
		f := freq * (1 - 0.5*t/seconds)
		v := math.Sin(2*math.Pi*f*t) * math.Exp(-popDecayRate*t)
		s := int16(v * 0.8 * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(s))
	}
	return buf
}
