package api

import "context"

// Country retrieves the country map.
func (s MapsService) Country(ctx context.Context) Envelope {
	return get(ctx, s, "/Map/Country")
}

// Department retrieves the map of a department.
func (s MapsService) Department(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, "/Map/Department", id, "")
}

// City retrieves the map of a city.
func (s MapsService) City(ctx context.Context, id int) Envelope {
	return getByID(ctx, s, "/Map/City", id, "")
}
