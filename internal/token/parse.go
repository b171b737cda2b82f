package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var strictB64 = b64.Strict()

type decodedClaims struct {
	*Claims
	audiences []string
	notBefore time.Time
}

func decodeSegment(seg, name string) ([]byte, error) {
	data, err := strictB64.DecodeString(seg)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrMalformedToken, name, err)
	}
	return data, nil
}

func checkHeader(seg string) error {
	data, err := decodeSegment(seg, "header")
	if err != nil {
		return err
	}

	var hdr header
	if err := json.Unmarshal(data, &hdr); err != nil {
		return fmt.Errorf("%w: parse header: %w", ErrMalformedToken, err)
	}
	if hdr.Alg != algHS256 {
		return fmt.Errorf("%w: unexpected alg %q", ErrMalformedToken, hdr.Alg)
	}
	return nil
}

func parsePayload(seg string) (*decodedClaims, error) {
	data, err := decodeSegment(seg, "payload")
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: parse payload: %w", ErrMalformedToken, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedToken)
	}

	out := &decodedClaims{Claims: &Claims{}}
	for name, raw := range fields {
		if err := out.set(name, raw); err != nil {
			return nil, fmt.Errorf("%w: claim %q: %w", ErrMalformedToken, name, err)
		}
	}
	return out, nil
}

func (d *decodedClaims) set(name string, raw json.RawMessage) error {
	var err error
	switch name {
	case ClaimSubject:
		err = json.Unmarshal(raw, &d.Subject)
	case ClaimIssuer:
		err = json.Unmarshal(raw, &d.Issuer)
	case ClaimTokenID:
		err = json.Unmarshal(raw, &d.TokenID)
	case ClaimAudience:
		d.audiences, err = parseAudience(raw)
		if err == nil && len(d.audiences) > 0 {
			d.Audience = d.audiences[0]
		}
	case ClaimExpiresAt:
		d.ExpiresAt, err = parseNumericDate(raw)
	case ClaimIssuedAt:
		d.IssuedAt, err = parseNumericDate(raw)
	case ClaimNotBefore:
		d.notBefore, err = parseNumericDate(raw)
	default:
		var v Value
		if err = v.UnmarshalJSON(raw); err == nil {
			d.Set(name, v)
		}
	}
	return err
}

// parseAudience accepts a single string or an array of strings.
func parseAudience(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, errors.New("aud must be a string or an array of strings")
	}
	return many, nil
}

// parseNumericDate reads seconds since the epoch. Fractions are truncated.
func parseNumericDate(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || raw[0] == '"' {
		return time.Time{}, errors.New("numeric date must be a number")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return time.Time{}, fmt.Errorf("numeric date: %w", err)
	}

	if secs, err := n.Int64(); err == nil {
		return time.Unix(secs, 0), nil
	}

	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return time.Time{}, fmt.Errorf("numeric date out of range: %s", n)
	}
	return time.Unix(int64(f), 0), nil
}
