package rotrut

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Namespace is the Skatteverket namespace of the reimbursement request document.
const Namespace = "http://xmls.skatteverket.se/se/skatteverket/husarbete/begaran/6.0"

// Begaran is the root of a reimbursement request. Field order is the element order
// required by the schema.
type Begaran struct {
	XMLName       xml.Name  `xml:"http://xmls.skatteverket.se/se/skatteverket/husarbete/begaran/6.0 Begaran"`
	NamnPaBegaran string    `xml:"NamnPaBegaran"`
	Hushall       []Hushall `xml:"Hushall"`
}

// Hushall groups all cases for one buyer, keyed by personal identity number.
type Hushall struct {
	Pnr    string   `xml:"Pnr"`
	Arende []Arende `xml:"Arende"`
}

// Arende is one invoice's claim. Monetary values are whole kronor.
type Arende struct {
	PrisTjanster    int64  `xml:"PrisTjanster"`
	BetaltBelopp    int64  `xml:"BetaltBelopp"`
	BegartBelopp    int64  `xml:"BegartBelopp"`
	BetalningsDatum string `xml:"BetalningsDatum"`

	// Exactly one of the hour fields is set: ROT uses AntalFaktureradeTimmar, RUT AntalTimmar.
	AntalFaktureradeTimmar *int64 `xml:"AntalFaktureradeTimmar,omitempty"`
	AntalTimmar            *int64 `xml:"AntalTimmar,omitempty"`

	Fastighetsbeteckning string `xml:"Fastighetsbeteckning,omitempty"`
}

// Marshal renders the request as an indented UTF-8 document with an XML declaration.
func (b *Begaran) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("encode Begaran: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode Begaran: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// ParseBegaran reads a request back, mainly to verify generated documents.
func ParseBegaran(data []byte) (*Begaran, error) {
	var b Begaran
	if err := xml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode Begaran: %w", err)
	}
	return &b, nil
}
