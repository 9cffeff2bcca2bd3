package service

import "github.com/okian/popcast/internal/domain/model"

// exampleCensus is the built-in sample data set: census counts for 2016,
// 2018 and 2020 in the Adamaoua and Centre regions of Cameroon.
var exampleCensus = []model.Census{
	{Locality: "NGAOUNDÉRÉ I", Populations: [3]float64{109423, 115772, 122282}},
	{Locality: "NGAOUNDÉRÉ II", Populations: [3]float64{118764, 125655, 132721}},
	{Locality: "NGAOUNDÉRÉ III", Populations: [3]float64{24501, 25923, 27380}},
	{Locality: "YAOUNDE 1", Populations: [3]float64{429252, 461134, 494353}},
	{Locality: "YAOUNDE 2", Populations: [3]float64{361606, 388463, 416448}},
}

// ExampleLocalities returns the names of the sample data set in load order.
func ExampleLocalities() []string {
	out := make([]string, len(exampleCensus))
	for i, c := range exampleCensus {
		out[i] = c.Locality
	}
	return out
}
