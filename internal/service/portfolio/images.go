package portfolio

// DefaultImageID is used for identifiers without an image of their own.
const DefaultImageID = "project1"

var imageURLs = map[string]string{
	"project1": "https://images.unsplash.com/photo-1551288049-bebda4e38f71?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=300",
	"project2": "https://images.unsplash.com/photo-1677442136019-21780ecad995?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=300",
	"project3": "https://images.unsplash.com/photo-1611224923853-80b023f02d71?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=300",
}

// ImageURL resolves a placeholder image id. Unknown ids get the project1 image.
func ImageURL(id string) string {
	if url, ok := imageURLs[id]; ok {
		return url
	}
	return imageURLs[DefaultImageID]
}
