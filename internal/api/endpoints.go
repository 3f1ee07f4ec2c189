package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ParamKind describes the single dynamic segment of an endpoint, if any.
type ParamKind int

const (
	ParamNone ParamKind = iota
	ParamID             // decimal, non-negative, unencoded
	ParamText           // free text, percent-encoded
)

// Endpoint describes one (method, path template) pair of the upstream API.
// Templates use {id} or {text} for the dynamic segment.
type Endpoint struct {
	Name     string
	Method   string
	Template string
	Param    ParamKind
}

// Path fills the template's dynamic segment with arg.
func (e Endpoint) Path(arg string) (string, error) {
	switch e.Param {
	case ParamID:
		id, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || id < 0 {
			return "", fmt.Errorf("invalid id %q: must be a non-negative integer", arg)
		}
		return strings.Replace(e.Template, "{id}", strconv.Itoa(id), 1), nil
	case ParamText:
		if arg == "" {
			return "", fmt.Errorf("%s requires a non-empty text segment", e.Name)
		}
		return strings.Replace(e.Template, "{text}", EncodeSegment(arg), 1), nil
	default:
		return e.Template, nil
	}
}

func ep(name, template string) Endpoint {
	param := ParamNone
	switch {
	case strings.Contains(template, "{id}"):
		param = ParamID
	case strings.Contains(template, "{text}"):
		param = ParamText
	}
	return Endpoint{Name: name, Method: http.MethodGet, Template: template, Param: param}
}

var endpointTable = []Endpoint{
	ep("country.info", "/Country/Colombia"),
	ep("country.president", "/Country/President"),

	ep("departments.list", "/Department"),
	ep("departments.get", "/Department/{id}"),
	ep("departments.name", "/Department/name/{text}"),
	ep("departments.cities", "/Department/{id}/cities"),
	ep("departments.natural-areas", "/Department/{id}/naturalareas"),
	ep("departments.attractions", "/Department/{id}/touristicattractions"),
	ep("departments.presidents", "/Department/{id}/presidents"),
	ep("departments.region", "/Department/{id}/region"),

	ep("cities.list", "/City"),
	ep("cities.get", "/City/{id}"),
	ep("cities.name", "/City/name/{text}"),
	ep("cities.department", "/City/{id}/department"),
	ep("cities.president", "/City/{id}/president"),
	ep("cities.attractions", "/City/{id}/touristicattractions"),

	ep("regions.list", "/Region"),
	ep("regions.get", "/Region/{id}"),
	ep("regions.name", "/Region/name/{text}"),
	ep("regions.departments", "/Region/{id}/departments"),
	ep("regions.natural-areas", "/Region/{id}/naturalareas"),
	ep("regions.attractions", "/Region/{id}/touristicattractions"),

	ep("presidents.list", "/President"),
	ep("presidents.get", "/President/{id}"),
	ep("presidents.name", "/President/name/{text}"),

	ep("attractions.list", "/TouristicAttraction"),
	ep("attractions.get", "/TouristicAttraction/{id}"),
	ep("attractions.name", "/TouristicAttraction/name/{text}"),
	ep("attractions.city", "/TouristicAttraction/city/{id}"),
	ep("attractions.department", "/TouristicAttraction/department/{id}"),
	ep("attractions.region", "/TouristicAttraction/region/{id}"),

	ep("natural-areas.list", "/NaturalArea"),
	ep("natural-areas.get", "/NaturalArea/{id}"),
	ep("natural-areas.name", "/NaturalArea/name/{text}"),
	ep("natural-areas.department", "/NaturalArea/department/{id}"),
	ep("natural-areas.region", "/NaturalArea/region/{id}"),
	ep("natural-areas.type", "/NaturalArea/type/{text}"),

	ep("airports.list", "/Airport"),
	ep("airports.get", "/Airport/{id}"),
	ep("airports.name", "/Airport/name/{text}"),

	ep("radios.list", "/Radio"),
	ep("radios.get", "/Radio/{id}"),
	ep("radios.name", "/Radio/name/{text}"),

	ep("tv-channels.list", "/TvChannel"),
	ep("tv-channels.get", "/TvChannel/{id}"),
	ep("tv-channels.name", "/TvChannel/name/{text}"),

	ep("maps.country", "/Map/Country"),
	ep("maps.department", "/Map/Department/{id}"),
	ep("maps.city", "/Map/City/{id}"),

	ep("search.all", "/Search/{text}"),
	ep("search.cities", "/Search/City/{text}"),
	ep("search.departments", "/Search/Department/{text}"),
	ep("search.regions", "/Search/Region/{text}"),
	ep("search.attractions", "/Search/TouristicAttraction/{text}"),
	ep("search.natural-areas", "/Search/NaturalArea/{text}"),
	ep("search.presidents", "/Search/President/{text}"),
	ep("search.airports", "/Search/Airport/{text}"),
}

// Endpoints returns a copy of the endpoint table.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpointTable))
	copy(out, endpointTable)
	return out
}

// LookupEndpoint finds an endpoint by name.
func LookupEndpoint(name string) (Endpoint, bool) {
	for _, e := range endpointTable {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}
