package schema

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// Built-in schemas for the travel platform. These drive every form and
// table in the dashboard; nothing about a record's shape is known outside
// of them.
func init() {
	Register(&Model{
		Key:        "blogs",
		Title:      "Blogs",
		Collection: "blogs",
		Fields: []Field{
			{Key: "title", Type: TypeText, Label: "Title", Required: true, MaxLength: iptr(160)},
			{Key: "slug", Type: TypeText, Label: "Slug", Required: true},
			{Key: "excerpt", Type: TypeTextarea, Label: "Excerpt", MaxLength: iptr(300)},
			{Key: "body", Type: TypeRichText, Label: "Body", Required: true},
			{Key: "cover", Type: TypeImage, Label: "Cover Image"},
			{Key: "gallery", Type: "image[]", Label: "Gallery"},
			{Key: "author", Type: TypeRelation, Label: "Author", Ref: "user", NameKey: "name"},
			{Key: "destinations", Type: "relation[]", Label: "Destinations", Ref: "destination"},
			{Key: "relatedBlogs", Type: "unidirectionalRelation[]", Label: "Related Posts", Ref: "blog", NameKey: "title"},
			{Key: "seo", Type: TypeObject, Label: "SEO", Fields: []Field{
				{Key: "seo.title", Type: TypeText, Label: "Meta Title", MaxLength: iptr(70)},
				{Key: "seo.description", Type: TypeTextarea, Label: "Meta Description", MaxLength: iptr(160)},
				{Key: "seo.keywords", Type: "text[]", Label: "Keywords"},
			}},
		},
	})

	Register(&Model{
		Key:        "tours",
		Title:      "Tours",
		Collection: "tours",
		Fields: []Field{
			{Key: "title", Type: TypeText, Label: "Title", Required: true},
			{Key: "summary", Type: TypeTextarea, Label: "Summary"},
			{Key: "description", Type: TypeRichText, Label: "Description"},
			{Key: "price", Type: TypeNumber, Label: "Price", Required: true, Min: fptr(0)},
			{Key: "durationDays", Type: TypeNumber, Label: "Duration (days)", Min: fptr(1)},
			{Key: "departureDate", Type: TypeDate, Label: "Departure"},
			{Key: "active", Type: TypeBoolean, Label: "Active"},
			{Key: "category", Type: TypeEnumDropdown, Label: "Category", Enum: []string{"adventure", "culture", "beach", "family"}},
			{Key: "cover", Type: TypeImage, Label: "Cover"},
			{Key: "videos", Type: "video[]", Label: "Videos"},
			{Key: "destination", Type: TypeRelation, Label: "Destination", Ref: "destination", Required: true},
			{Key: "coupons", Type: "relation[]", Label: "Coupons", Ref: "coupon", NameKey: "code"},
			{Key: "similarTours", Type: "unidirectionalRelation[]", Label: "Similar Tours", Ref: "tour", NameKey: "title"},
			{Key: "itinerary", Type: "object[]", Label: "Itinerary", Fields: []Field{
				{Key: "itinerary.day", Type: TypeNumber, Label: "Day"},
				{Key: "itinerary.headline", Type: TypeText, Label: "Headline"},
				{Key: "itinerary.details", Type: TypeTextarea, Label: "Details"},
				{Key: "itinerary.stops", Type: "relation[]", Label: "Stops", Ref: "destination"},
			}},
			{Key: "paymentConfig", Type: TypeObject, Label: "Payment", Fields: []Field{
				{Key: "paymentConfig.partial", Type: TypeObject, Label: "Partial Payment", Fields: []Field{
					{Key: "paymentConfig.partial.enabled", Type: TypeBoolean, Label: "Enabled"},
					{Key: "paymentConfig.partial.price", Type: TypeNumber, Label: "Deposit", Min: fptr(0)},
				}},
			}},
		},
	})

	Register(&Model{
		Key:        "destinations",
		Title:      "Destinations",
		Collection: "destinations",
		Fields: []Field{
			{Key: "name", Type: TypeText, Label: "Name", Required: true},
			{Key: "country", Type: TypeText, Label: "Country", Required: true},
			{Key: "intro", Type: TypeRichText, Label: "Introduction"},
			{Key: "photos", Type: "image[]", Label: "Photos"},
			{Key: "highlights", Type: "text[]", Label: "Highlights"},
			{Key: "featured", Type: TypeBoolean, Label: "Featured"},
		},
	})

	Register(&Model{
		Key:        "bookings",
		Title:      "Bookings",
		Collection: "bookings",
		Booking:    true,
		Fields: []Field{
			{Key: "reference", Type: TypeText, Label: "Reference", Required: true},
			{Key: "email", Type: TypeText, Label: "Email", Required: true},
			{Key: "contact", Type: TypeText, Label: "Contact", Required: true, MinLength: iptr(7)},
			{Key: "travellers", Type: TypeNumber, Label: "Travellers", Min: fptr(1)},
			{Key: "tour", Type: TypeRelation, Label: "Tour", Ref: "tour", NameKey: "title", Required: true},
			{Key: "departureDate", Type: TypeDate, Label: "Departure"},
			{Key: "notes", Type: TypeTextarea, Label: "Notes"},
		},
	})

	Register(&Model{
		Key:        "coupons",
		Title:      "Coupons",
		Collection: "coupons",
		Fields: []Field{
			{Key: "code", Type: TypeText, Label: "Code", Required: true},
			{Key: "percentOff", Type: TypeNumber, Label: "Percent Off", Min: fptr(0), Max: fptr(100)},
			{Key: "validUntil", Type: TypeDate, Label: "Valid Until"},
			{Key: "active", Type: TypeBoolean, Label: "Active"},
		},
	})

	Register(&Model{
		Key:        "flyers",
		Title:      "Flyers",
		Collection: "flyers",
		Fields: []Field{
			{Key: "title", Type: TypeText, Label: "Title", Required: true},
			{Key: "image", Type: TypeImage, Label: "Image", Required: true},
			{Key: "link", Type: TypeText, Label: "Link"},
			{Key: "tours", Type: "relation[]", Label: "Tours", Ref: "tour", NameKey: "title"},
		},
	})

	Register(&Model{
		Key:        "settings",
		Title:      "Site Settings",
		Collection: "settings",
		Singleton:  true,
		Fields: []Field{
			{Key: "siteName", Type: TypeText, Label: "Site Name", Required: true},
			{Key: "contactEmail", Type: TypeText, Label: "Contact Email"},
			{Key: "social", Type: TypeObject, Label: "Social Links", Fields: []Field{
				{Key: "social.facebook", Type: TypeText, Label: "Facebook"},
				{Key: "social.instagram", Type: TypeText, Label: "Instagram"},
			}},
			{Key: "featuredTours", Type: "relation[]", Label: "Featured Tours", Ref: "tour", NameKey: "title"},
		},
	})
}
