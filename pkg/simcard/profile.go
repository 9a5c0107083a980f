package simcard

import (
	"bytes"
	"encoding/hex"

	"github.com/gregLibert/sim-card/pkg/tlv"
)

// DefaultProfile returns the files behind the static answer table, for cards
// that should run in dynamic mode with the same content. The MSISDN record is
// derived from port and instance as in static mode.
//
// The static descriptors of EF_ICCID and the cell broadcast files carry
// access byte 0F, which no flag combination produces; they are provisioned
// read-only instead.
func DefaultProfile(port, instance int) []File {
	msisdn, _ := hex.DecodeString(MSISDN(port, instance))

	b := profileBuilder{}
	b.dedicated(0x6F14, ReadOnly|NeedPIN, "416e64726f6964ffffffffffffffffffffffffff")
	b.dedicated(0x6F11, NeedPIN, "55")
	b.dedicated(0x2FE2, ReadOnly, "98101430121181157002")
	b.dedicated(0x6F13, NeedPIN, "55")
	b.dedicated(0x6F38, ReadOnly|NeedPIN, "ff30ffff3f003c0f000c0000f0ff00")
	b.linear(0x6FC9, NeedPIN, 4, 2, "01000000")
	b.linear(0x6FCA, NeedPIN, 5, 2, "0000000000")
	b.dedicated(0x6FAD, ReadOnly, "00000003")
	b.dedicated(0x6F16, ReadOnly|NeedPIN, "0233")
	b.dedicated(0x6F46, ReadOnly, "01416e64726f6964ffffffffffffffffff")
	b.dedicated(0x6FCD, ReadOnly, "a30b800932643164269fffffff")
	b.linear(0x6FC5, ReadOnly, 24, 10, "43058441aa890affffffffffffffffffffffffffffffffff")
	b.linear(0x6F40, NeedPIN, 32, 4, hex.EncodeToString(msisdn))
	b.linear(0x6FC7, NeedPIN, 32, 2, "566f6963656d61696cffffffffffffffffff07915155125740f9ffffffffffff")
	b.linear(0x6F3A, NeedPIN, 32, 4,
		"4d6f7a696c6c61ffffffffffffffffffffff07815155258102f1ffffffffffff",
		"800053006100df00ea9ec3ffffffffffffff07815155258102f2ffffffffffff",
		"8106e04669726520ebffffffffffffffffff07815155258102f3ffffffffffff",
		"82079e804875616e6720c3ffffffffffffff07815155258102f4ffffffffffff")
	b.dedicated(0x6F45, ReadOnly, "b000fffff000")
	b.dedicated(0x6F50, ReadOnly, "b002c000ffffc001c001fffff002ff00")
	return b.files
}

type profileBuilder struct {
	files []File
}

func (b *profileBuilder) dedicated(id uint16, flags Flags, content string) {
	f, err := NewDedicated(id, flags, tlv.Hex(content))
	if err != nil {
		panic(err)
	}
	b.files = append(b.files, f)
}

// linear appends a linear file of count records; records not given are
// filled with 'FF'.
func (b *profileBuilder) linear(id uint16, flags Flags, length, count int, records ...string) {
	data := bytes.Repeat([]byte{tlv.Padding}, length*count)
	for i, r := range records {
		copy(data[i*length:(i+1)*length], tlv.Hex(r))
	}
	f, err := NewLinear(id, flags, length, data)
	if err != nil {
		panic(err)
	}
	b.files = append(b.files, f)
}
