package catalogapi

import (
	"encoding/xml"
)

// ONIX 3.1 code list values used by the parser
const (
	onixTitleTypeDistinctive  = "01" // distinctive title
	onixContributorRoleAuthor = "A01"
	onixDateRolePublication   = "01"
	onixTextTypeDescription   = "03" // main description
	onixResourceTypeCover     = "01" // front cover
	onixMeasureTypeWeight     = "08"
	onixPriceTypeRRPIncTax    = "02"
)

// onixMessage is the document envelope. The feed serves exactly one Product
// per ISBN request. Fields throughout these structs are optional: the decoder
// leaves anything the feed omits at its zero value, and absence is handled
// field by field in the parser.
type onixMessage struct {
	XMLName xml.Name     `xml:"http://ns.editeur.org/onix/3.1/reference ONIXMessage"`
	Product *onixProduct `xml:"Product"`
}

type onixProduct struct {
	DescriptiveDetail *onixDescriptiveDetail `xml:"DescriptiveDetail"`
	CollateralDetail  *onixCollateralDetail  `xml:"CollateralDetail"`
	PublishingDetail  *onixPublishingDetail  `xml:"PublishingDetail"`
	ProductSupply     []onixProductSupply    `xml:"ProductSupply"`
}

type onixDescriptiveDetail struct {
	TitleDetails []onixTitleDetail `xml:"TitleDetail"`
	Contributors []onixContributor `xml:"Contributor"`
	Measures     []onixMeasure     `xml:"Measure"`
}

type onixTitleDetail struct {
	TitleType    string            `xml:"TitleType"`
	TitleElement *onixTitleElement `xml:"TitleElement"`
}

type onixTitleElement struct {
	TitleText string `xml:"TitleText"`
	Subtitle  string `xml:"Subtitle"`
}

type onixContributor struct {
	ContributorRole string `xml:"ContributorRole"`
	PersonName      string `xml:"PersonName"`
}

type onixMeasure struct {
	MeasureType string `xml:"MeasureType"`
	Measurement string `xml:"Measurement"`
}

type onixCollateralDetail struct {
	TextContents        []onixTextContent        `xml:"TextContent"`
	SupportingResources []onixSupportingResource `xml:"SupportingResource"`
}

type onixTextContent struct {
	TextType string `xml:"TextType"`
	Text     string `xml:"Text"`
}

type onixSupportingResource struct {
	ResourceContentType string               `xml:"ResourceContentType"`
	ResourceVersions    []onixResourceVersion `xml:"ResourceVersion"`
}

type onixResourceVersion struct {
	ResourceLink string `xml:"ResourceLink"`
}

type onixPublishingDetail struct {
	Publisher       *onixPublisher       `xml:"Publisher"`
	PublishingDates []onixPublishingDate `xml:"PublishingDate"`
}

type onixPublisher struct {
	PublisherName string `xml:"PublisherName"`
}

type onixPublishingDate struct {
	PublishingDateRole string `xml:"PublishingDateRole"`
	Date               string `xml:"Date"`
}

type onixProductSupply struct {
	Market       *onixMarket       `xml:"Market"`
	SupplyDetail *onixSupplyDetail `xml:"SupplyDetail"`
}

type onixMarket struct {
	Territory *onixTerritory `xml:"Territory"`
}

type onixTerritory struct {
	CountriesIncluded string `xml:"CountriesIncluded"`
}

type onixSupplyDetail struct {
	Supplier *onixSupplier `xml:"Supplier"`
	Prices   []onixPrice   `xml:"Price"`
}

type onixSupplier struct {
	SupplierName string `xml:"SupplierName"`
}

type onixPrice struct {
	PriceType   string `xml:"PriceType"`
	PriceAmount string `xml:"PriceAmount"`
}
