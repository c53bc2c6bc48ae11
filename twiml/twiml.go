// Package twiml renders the small subset of Twilio's voice markup the
// webhook needs: a spoken greeting and a media-stream connect.
package twiml

import "encoding/xml"

type Response struct {
	XMLName xml.Name `xml:"Response"`
	Say     []Say    `xml:"Say,omitempty"`
	Connect *Connect `xml:"Connect,omitempty"`
}

type Say struct {
	Text string `xml:",chardata"`
}

type Connect struct {
	Stream *Stream `xml:"Stream,omitempty"`
}

type Stream struct {
	URL string `xml:"url,attr"`
}

// Voice renders a greeting followed by a stream connect. An empty streamURL
// omits the connect, so the call ends after the message.
func Voice(greeting, streamURL string) ([]byte, error) {
	resp := Response{}
	if greeting != "" {
		resp.Say = []Say{{Text: greeting}}
	}
	if streamURL != "" {
		resp.Connect = &Connect{Stream: &Stream{URL: streamURL}}
	}
	body, err := xml.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
