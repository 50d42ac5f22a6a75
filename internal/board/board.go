// Package board decodes the raw hex frames the data logger's expansion
// boards emit and turns them into readings. Frames are short hex
// strings: a board id, a timestamp and one fixed-width raw value per
// channel.
package board

import (
	"fmt"
	"strconv"
)

const (
	boardIdChars   = 2
	timestampChars = 8
	channelChars   = 4
	headerChars    = boardIdChars + timestampChars
)

// Channel maps one raw payload slot to a named variable. Raw values
// are unsigned counts; the logged value is raw*Scale + Offset.
type Channel struct {
	Name   string
	Scale  float64
	Offset float64
}

// Board describes one expansion board and the channels it reports
type Board struct {
	Id          int
	Description string
	Channels    []Channel
}

// Sample is one decoded variable reading
type Sample struct {
	Variable   string
	TimeLogged int64
	Value      float64
}

// frameLen is the exact hex length a frame for this board must have
func (b Board) frameLen() int {
	return headerChars + channelChars*len(b.Channels)
}

// decode turns a raw frame into one sample per channel. The frame's
// board id must already have been matched to this board.
func (b Board) decode(frame string) ([]Sample, error) {
	if len(frame) != b.frameLen() {
		return nil, fmt.Errorf("frame for board %d has %d hex chars, want %d", b.Id, len(frame), b.frameLen())
	}

	seconds, err := strconv.ParseUint(frame[boardIdChars:headerChars], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad timestamp in frame %q: %w", frame, err)
	}
	timeLogged := int64(seconds) * 1000

	samples := make([]Sample, len(b.Channels))
	for i, ch := range b.Channels {
		start := headerChars + i*channelChars
		raw, err := strconv.ParseUint(frame[start:start+channelChars], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("bad value for channel %s in frame %q: %w", ch.Name, frame, err)
		}
		samples[i] = Sample{
			Variable:   ch.Name,
			TimeLogged: timeLogged,
			Value:      float64(raw)*ch.Scale + ch.Offset,
		}
	}
	return samples, nil
}

// BasicBoard is the stock five-channel ADC expansion board. Values are
// raw 10 bit counts, left unscaled.
func BasicBoard() Board {
	return Board{
		Id:          8,
		Description: "Basic Expansion Board",
		Channels: []Channel{
			{Name: "adc_channel_one", Scale: 1},
			{Name: "adc_channel_two", Scale: 1},
			{Name: "adc_channel_three", Scale: 1},
			{Name: "adc_channel_four", Scale: 1},
			{Name: "adc_channel_five", Scale: 1},
		},
	}
}

// MotorBoard reports the state of the motor controller
func MotorBoard() Board {
	return Board{
		Id:          9,
		Description: "Motor Expansion Board",
		Channels: []Channel{
			{Name: "raw_adc", Scale: 1},
			{Name: "motor_value", Scale: 1},
			{Name: "set_point", Scale: 1},
		},
	}
}

// NetScannerBoard interfaces a 16 channel NetScanner pressure scanner.
// Raw counts are offset-binary around two million microbar.
func NetScannerBoard(channelOffset int) Board {
	b := Board{
		Id:          10,
		Description: "NetScanner Ethernet Interface Board",
	}
	if channelOffset > 0 {
		b.Id = 11
	}
	for i := 1; i <= 16; i++ {
		b.Channels = append(b.Channels, Channel{
			Name:   fmt.Sprintf("Channel_%d", i+channelOffset),
			Scale:  1.0 / 2048,
			Offset: -16,
		})
	}
	return b
}
