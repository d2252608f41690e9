package synth

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// iccProfileName is the profile filename referenced from maindoc.xml.
const iccProfileName = "sRGB-pipely-V2-g22.icc"

type xyz struct{ X, Y, Z float64 }

var (
	iccD50   = xyz{0.9642, 1.0, 0.8249}
	iccRed   = xyz{0.4361, 0.2225, 0.0139}
	iccGreen = xyz{0.3851, 0.7169, 0.0971}
	iccBlue  = xyz{0.1431, 0.0606, 0.7141}
)

type iccTag struct {
	sig  string
	data []byte
}

// buildICCProfile returns a version 2 RGB display profile with sRGB
// primaries and a pure 2.2 gamma curve.
func buildICCProfile(now time.Time) []byte {
	trc := iccCurve(2.2)
	tags := []iccTag{
		{"desc", iccDesc("sRGB pipely V2 gamma 2.2")},
		{"cprt", iccText("No copyright, use freely")},
		{"wtpt", iccXYZ(iccD50)},
		{"rXYZ", iccXYZ(iccRed)},
		{"gXYZ", iccXYZ(iccGreen)},
		{"bXYZ", iccXYZ(iccBlue)},
		{"rTRC", trc},
		{"gTRC", trc},
		{"bTRC", trc},
	}

	tableSize := 4 + 12*len(tags)
	offset := 128 + tableSize
	var table, data bytes.Buffer
	_ = binary.Write(&table, binary.BigEndian, uint32(len(tags)))
	shared := map[string]int{}
	for _, tag := range tags {
		key := string(tag.data)
		at, ok := shared[key]
		if !ok {
			at = offset + data.Len()
			shared[key] = at
			data.Write(tag.data)
			for data.Len()%4 != 0 {
				data.WriteByte(0)
			}
		}
		table.WriteString(tag.sig)
		_ = binary.Write(&table, binary.BigEndian, uint32(at))
		_ = binary.Write(&table, binary.BigEndian, uint32(len(tag.data)))
	}

	size := 128 + table.Len() + data.Len()
	var out bytes.Buffer
	out.Grow(size)
	w := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }
	w(uint32(size))
	w(uint32(0))          // preferred CMM
	w(uint32(0x02100000)) // version 2.1
	out.WriteString("mntr")
	out.WriteString("RGB ")
	out.WriteString("XYZ ")
	now = now.UTC()
	w([6]uint16{uint16(now.Year()), uint16(now.Month()), uint16(now.Day()), uint16(now.Hour()), uint16(now.Minute()), uint16(now.Second())})
	out.WriteString("acsp")
	w(uint32(0)) // platform
	w(uint32(0)) // flags
	w(uint32(0)) // manufacturer
	w(uint32(0)) // model
	w(uint64(0)) // attributes
	w(uint32(0)) // perceptual intent
	w(s15Fixed16(iccD50.X))
	w(s15Fixed16(iccD50.Y))
	w(s15Fixed16(iccD50.Z))
	w(uint32(0)) // creator
	// Profile ID and reserved bytes.
	out.Write(make([]byte, 16+28))
	out.Write(table.Bytes())
	out.Write(data.Bytes())
	return out.Bytes()
}

func s15Fixed16(v float64) int32 {
	return int32(math.Round(v * 65536))
}

func iccXYZ(v xyz) []byte {
	var buf bytes.Buffer
	buf.WriteString("XYZ ")
	buf.Write(make([]byte, 4))
	_ = binary.Write(&buf, binary.BigEndian, [3]int32{s15Fixed16(v.X), s15Fixed16(v.Y), s15Fixed16(v.Z)})
	return buf.Bytes()
}

func iccCurve(gamma float64) []byte {
	var buf bytes.Buffer
	buf.WriteString("curv")
	buf.Write(make([]byte, 4))
	_ = binary.Write(&buf, binary.BigEndian, uint32(1))
	_ = binary.Write(&buf, binary.BigEndian, uint16(math.Round(gamma*256)))
	return buf.Bytes()
}

func iccText(text string) []byte {
	var buf bytes.Buffer
	buf.WriteString("text")
	buf.Write(make([]byte, 4))
	buf.WriteString(text)
	buf.WriteByte(0)
	return buf.Bytes()
}

func iccDesc(text string) []byte {
	var buf bytes.Buffer
	buf.WriteString("desc")
	buf.Write(make([]byte, 4))
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(text)+1))
	buf.WriteString(text)
	buf.WriteByte(0)
	// Empty Unicode and ScriptCode records.
	buf.Write(make([]byte, 4+4+2+1+67))
	return buf.Bytes()
}
