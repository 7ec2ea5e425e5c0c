package sms

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
)

// ComputeSignature returns the base64 HMAC-SHA1 the SMS gateway attaches to
// its webhook calls: the HMAC covers the full request URL followed by every
// form parameter name and value in lexical key order.
func ComputeSignature(secret, requestURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(requestURL))
	for _, k := range keys {
		for _, v := range params[k] {
			mac.Write([]byte(k))
			mac.Write([]byte(v))
		}
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature header against the request URL
// and form parameters. The comparison is constant-time. An empty secret or
// signature never verifies.
func VerifySignature(secret, requestURL string, params url.Values, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	expected, err := base64.StdEncoding.DecodeString(ComputeSignature(secret, requestURL, params))
	if err != nil {
		return false
	}

	return hmac.Equal(provided, expected)
}
