package weather

// Store holds the single live instance of each record.
// Records are overwritten in place; there is no history.
//
// Store is not synchronized. Its owner serializes access.
type Store struct {
	current     CurrentWeather
	forecast    WeatherForecast
	hasCurrent  bool
	hasForecast bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetCurrent overwrites the current-conditions record.
func (s *Store) SetCurrent(c CurrentWeather) {
	s.current = c
	s.hasCurrent = true
}

// SetForecast overwrites the forecast record.
func (s *Store) SetForecast(f WeatherForecast) {
	s.forecast = f
	s.hasForecast = true
}

// Current returns a copy of the current record and whether one was stored.
func (s *Store) Current() (CurrentWeather, bool) {
	return s.current, s.hasCurrent
}

// Forecast returns a copy of the forecast record and whether one was stored.
func (s *Store) Forecast() (WeatherForecast, bool) {
	return s.forecast, s.hasForecast
}

// Reset clears both records.
func (s *Store) Reset() {
	*s = Store{}
}
