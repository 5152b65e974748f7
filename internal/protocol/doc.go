// Package protocol implements the weather link's message codec.
//
// The display and its companion exchange dictionaries: small ordered sets of
// tuples keyed by integer tags. Responses carry a binary record inside a byte
// array tuple. This package encodes and decodes the dictionary wire form, the
// fixed-layout records, and the response envelope, and classifies an inbound
// dictionary into exactly one message kind.
//
// # Tags
//
//	0   Reconnect                 inbound, presence only
//	32  RequestCurrentWeather     outbound, uint8(1)
//	33  CurrentWeatherResponse    inbound, [count][CurrentWeather]
//	34  RequestWeatherForecast    outbound, uint8(1)
//	35  WeatherForecastResponse   inbound, [count][WeatherForecast]
//
// # Dictionary Wire Format
//
// All integers are little-endian:
//   - Count: 1 byte
//   - Per tuple: key (4 bytes), type (1 byte), length (2 bytes), value
//
// Tuple types: 0 byte array, 1 C string, 2 unsigned int, 3 signed int.
// Integer tuples are 1, 2 or 4 bytes wide.
//
// # Records
//
// CurrentWeather is 51 bytes and WeatherForecast is 82 bytes. Both are laid
// out field by field with no padding; see EncodeCurrentWeather and
// EncodeWeatherForecast for offsets. Text fields are NUL terminated and
// truncated to fit.
//
// # Envelope
//
// Both responses are [count: u8][record]. A zero count means location is
// disabled on the companion and nothing after it is read. A non-zero count
// means exactly one record follows.
//
// # Usage Example - Parsing
//
//	dict, err := protocol.DecodeDictionary(data)
//	if err != nil {
//	    return err
//	}
//
//	msg, err := protocol.ParseMessage(dict)
//	if err != nil {
//	    return err
//	}
//
//	switch m := msg.(type) {
//	case *protocol.CurrentWeatherResponse:
//	    fmt.Println(m.Weather.TemperatureLabel())
//	}
//
// # Usage Example - Construction
//
//	data, err := protocol.EncodeDictionary(protocol.BuildCurrentWeatherRequest())
//
// # Error Handling
//
// Dictionary errors wrap ErrTruncated, ErrTrailingBytes, ErrInvalidWidth and
// friends. Response payloads that cannot hold their record wrap
// ErrShortPayload. Use errors.Is to classify.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use. Decoded tuple
// values alias the input buffer.
package protocol
