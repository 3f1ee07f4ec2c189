package api

// Service accessors group the endpoint methods by resource.
// Each service embeds the Caller it delegates to.

type CountryService struct{ Caller }

type DepartmentsService struct{ Caller }

type CitiesService struct{ Caller }

type RegionsService struct{ Caller }

type PresidentsService struct{ Caller }

type TouristicAttractionsService struct{ Caller }

type NaturalAreasService struct{ Caller }

type AirportsService struct{ Caller }

type RadiosService struct{ Caller }

type TVChannelsService struct{ Caller }

type MapsService struct{ Caller }

type SearchService struct{ Caller }

func (c *Client) Country() CountryService {
	return CountryService{c}
}

func (c *Client) Departments() DepartmentsService {
	return DepartmentsService{c}
}

func (c *Client) Cities() CitiesService {
	return CitiesService{c}
}

func (c *Client) Regions() RegionsService {
	return RegionsService{c}
}

func (c *Client) Presidents() PresidentsService {
	return PresidentsService{c}
}

func (c *Client) TouristicAttractions() TouristicAttractionsService {
	return TouristicAttractionsService{c}
}

func (c *Client) NaturalAreas() NaturalAreasService {
	return NaturalAreasService{c}
}

func (c *Client) Airports() AirportsService {
	return AirportsService{c}
}

func (c *Client) Radios() RadiosService {
	return RadiosService{c}
}

func (c *Client) TVChannels() TVChannelsService {
	return TVChannelsService{c}
}

func (c *Client) Maps() MapsService {
	return MapsService{c}
}

func (c *Client) Search() SearchService {
	return SearchService{c}
}
