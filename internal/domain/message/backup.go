package message

import (
	"encoding/xml"
	"strconv"
	"time"
)

// Backup mirrors the root element of an SMS backup export file.
type Backup struct {
	XMLName xml.Name    `xml:"smses"`
	Count   int         `xml:"count,attr"`
	SMS     []BackupSMS `xml:"sms"`
}

// BackupSMS is one <sms> entry of the export. Date is the delivery time in
// epoch milliseconds; ReadableDate is the transport's human-readable form.
// Body is a pointer so that an entry missing the attribute entirely is
// distinguishable from one carrying an empty string.
type BackupSMS struct {
	Address      string  `xml:"address,attr"`
	Body         *string `xml:"body,attr"`
	Date         string  `xml:"date,attr"`
	ReadableDate string  `xml:"readable_date,attr"`
}

// ParseBackup unmarshals a backup export document.
func ParseBackup(data []byte) (*Backup, error) {
	var backup Backup
	if err := xml.Unmarshal(data, &backup); err != nil {
		return nil, err
	}
	return &backup, nil
}

// ToRawMessage converts a backup entry into a pipeline input. The epoch
// millisecond attribute becomes ExternalTimestamp when it parses; the
// readable date string is carried along untouched for the later fallback.
// An entry without a body attribute is marked so the pipeline can
// quarantine it with the right diagnostic.
func (s *BackupSMS) ToRawMessage() RawMessage {
	raw := RawMessage{
		OriginMarker: s.Address,
		ReadableDate: s.ReadableDate,
	}
	if s.Body != nil {
		raw.Body = *s.Body
	} else {
		raw.MissingBody = true
	}
	if ms, err := strconv.ParseInt(s.Date, 10, 64); err == nil && ms > 0 {
		ts := time.UnixMilli(ms)
		raw.ExternalTimestamp = &ts
	}
	return raw
}

// FilterMoneyService returns the backup entries whose address matches the
// money-service marker, converted to raw messages. The second return value
// counts entries skipped by the filter.
func (b *Backup) FilterMoneyService(marker string) ([]RawMessage, int) {
	var messages []RawMessage
	skipped := 0
	for i := range b.SMS {
		raw := b.SMS[i].ToRawMessage()
		if !raw.FromMoneyService(marker) {
			skipped++
			continue
		}
		messages = append(messages, raw)
	}
	return messages, skipped
}
