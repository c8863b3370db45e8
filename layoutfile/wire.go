package layoutfile

import (
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/milk9111/seatgrid/layout"
)

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	// deterministic output so identical layouts produce identical blobs
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("layoutfile: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("layoutfile: CBOR decoder initialization failed: " + err.Error())
	}
}

// wire mirrors layout.Serialized for the binary codecs, whose token
// encodings live here rather than on layout.Token.
type wire struct {
	X                 int                    `json:"x"`
	Y                 int                    `json:"y"`
	HighestSeatNumber int                    `json:"highestSeatNumber"`
	Cells             []wireToken            `json:"cells"`
	GlobalOverride    *layout.GlobalOverride `json:"globalOverride,omitempty"`
}

type wireToken layout.Token

func toWire(s layout.Serialized) wire {
	w := wire{X: s.X, Y: s.Y, HighestSeatNumber: s.HighestSeatNumber, GlobalOverride: s.GlobalOverride}
	w.Cells = make([]wireToken, len(s.Cells))
	for i, t := range s.Cells {
		w.Cells[i] = wireToken(t)
	}
	return w
}

func (w wire) serialized() layout.Serialized {
	s := layout.Serialized{X: w.X, Y: w.Y, HighestSeatNumber: w.HighestSeatNumber, GlobalOverride: w.GlobalOverride}
	s.Cells = make([]layout.Token, len(w.Cells))
	for i, t := range w.Cells {
		s.Cells[i] = layout.Token(t)
	}
	return s
}

// MarshalCBOR writes a cell as a map and a run as its decimal text string.
func (t wireToken) MarshalCBOR() ([]byte, error) {
	if t.Cell != nil {
		return cborEnc.Marshal(t.Cell)
	}
	return cborEnc.Marshal(strconv.Itoa(t.Empty))
}

func (t *wireToken) UnmarshalCBOR(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty CBOR item", layout.ErrInvalidToken)
	}
	switch {
	case data[0] == 0xf6: // null
		*t = wireToken{Empty: 1}
		return nil
	case data[0]>>5 == 3: // text string
		var s string
		if err := cborDec.Unmarshal(data, &s); err != nil {
			return err
		}
		tok, err := layout.ParseRun(s)
		if err != nil {
			return err
		}
		*t = wireToken(tok)
		return nil
	}
	var c layout.Cell
	if err := cborDec.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("%w: %v", layout.ErrInvalidToken, err)
	}
	*t = wireToken{Cell: &c}
	return nil
}

var (
	_ msgpack.CustomEncoder = wireToken{}
	_ msgpack.CustomDecoder = (*wireToken)(nil)
)

func (t wireToken) EncodeMsgpack(enc *msgpack.Encoder) error {
	if t.Cell != nil {
		return enc.Encode(t.Cell)
	}
	return enc.EncodeString(strconv.Itoa(t.Empty))
}

func (t *wireToken) DecodeMsgpack(dec *msgpack.Decoder) error {
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}
	switch {
	case code == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*t = wireToken{Empty: 1}
		return nil
	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		tok, err := layout.ParseRun(s)
		if err != nil {
			return err
		}
		*t = wireToken(tok)
		return nil
	}
	var c layout.Cell
	if err := dec.Decode(&c); err != nil {
		return fmt.Errorf("%w: %v", layout.ErrInvalidToken, err)
	}
	*t = wireToken{Cell: &c}
	return nil
}
