// Package wire extracts Control-Change packets from raw MIDI byte streams.
package wire

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// ControlChanges decodes every Control-Change message in data. Running status,
// interleaved realtime bytes and SysEx blocks are handled; all other messages
// are skipped. A message cut short by a new status byte is dropped.
func ControlChanges(data []byte) []contracts.Packet {
	var (
		packets []contracts.Packet
		msg     []byte
		inSysEx bool
	)

	for _, b := range data {
		switch {
		case b >= 0xF8: // realtime, may appear anywhere
			continue
		case b == 0xF0:
			inSysEx = true
			msg = msg[:0]
			continue
		case b == 0xF7:
			inSysEx = false
			continue
		case inSysEx:
			continue
		case b >= 0xF0: // system common cancels running status
			msg = msg[:0]
			continue
		case b&0x80 != 0:
			msg = append(msg[:0], b)
			continue
		}

		if len(msg) == 0 {
			continue
		}
		msg = append(msg, b)
		if len(msg) < 1+dataLen(msg[0]) {
			continue
		}
		if p, ok := Decode(gomidi.Message(msg)); ok {
			packets = append(packets, p)
		}
		msg = msg[:1] // keep running status
	}
	return packets
}

// Decode converts a single message into a packet when it is a Control-Change.
func Decode(msg gomidi.Message) (contracts.Packet, bool) {
	var ch, cc, val uint8
	if !msg.GetControlChange(&ch, &cc, &val) {
		return contracts.Packet{}, false
	}
	return contracts.Packet{Channel: ch + 1, Controller: cc, Value: val}, true
}

// Unpack decodes a short message packed little-endian into a 32-bit word, as
// delivered by winmm.
func Unpack(word uint32) (contracts.Packet, bool) {
	status := byte(word)
	if status&0xF0 != 0xB0 {
		return contracts.Packet{}, false
	}
	return Decode(gomidi.Message{status, byte(word>>8) & 0x7F, byte(word>>16) & 0x7F})
}

func dataLen(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	default:
		return 2
	}
}
