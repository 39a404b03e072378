package spriter

import "encoding/xml"

// File is the raw content of an SCML document. Times are in milliseconds and
// angles in degrees, as Spriter writes them.
type File struct {
	XMLName          xml.Name `xml:"spriter_data"`
	Version          string   `xml:"scml_version,attr"`
	Generator        string   `xml:"generator,attr"`
	GeneratorVersion string   `xml:"generator_version,attr"`

	Folders  []Folder `xml:"folder"`
	Entities []Entity `xml:"entity"`
}

type Folder struct {
	ID    string      `xml:"id,attr"`
	Name  string      `xml:"name,attr"`
	Files []ImageFile `xml:"file"`
}

// ImageFile is an image referenced by objects. Name contains the path
// relative to the SCML file.
type ImageFile struct {
	ID     string   `xml:"id,attr"`
	Name   string   `xml:"name,attr"`
	Width  float64  `xml:"width,attr"`
	Height float64  `xml:"height,attr"`
	PivotX *float64 `xml:"pivot_x,attr"`
	PivotY *float64 `xml:"pivot_y,attr"`
}

type Entity struct {
	ID         string      `xml:"id,attr"`
	Name       string      `xml:"name,attr"`
	Animations []Animation `xml:"animation"`
}

type Animation struct {
	ID        string     `xml:"id,attr"`
	Name      string     `xml:"name,attr"`
	Length    int        `xml:"length,attr"`
	Interval  int        `xml:"interval,attr"`
	Looping   string     `xml:"looping,attr"`
	Mainline  Mainline   `xml:"mainline"`
	Timelines []Timeline `xml:"timeline"`
}

// IsLooping reports the looping attribute, which defaults to true.
func (a *Animation) IsLooping() bool {
	return a.Looping != "false"
}

type Mainline struct {
	Keys []MainlineKey `xml:"key"`
}

// MainlineKey lists which timeline keys make up the pose from its time on
// and how they are parented.
type MainlineKey struct {
	ID         string `xml:"id,attr"`
	Time       int    `xml:"time,attr"`
	BoneRefs   []Ref  `xml:"bone_ref"`
	ObjectRefs []Ref  `xml:"object_ref"`
}

// Ref points at a timeline key. Parent is the ID of a bone ref in the same
// mainline key.
type Ref struct {
	ID       string `xml:"id,attr"`
	Parent   string `xml:"parent,attr"`
	Timeline string `xml:"timeline,attr"`
	Key      string `xml:"key,attr"`
	ZIndex   int    `xml:"z_index,attr"`
}

type Timeline struct {
	ID         string        `xml:"id,attr"`
	Name       string        `xml:"name,attr"`
	ObjectType string        `xml:"object_type,attr"`
	Keys       []TimelineKey `xml:"key"`
}

// Key returns the key with the given ID.
func (tl *Timeline) Key(id string) *TimelineKey {
	for i := range tl.Keys {
		if tl.Keys[i].ID == id {
			return &tl.Keys[i]
		}
	}
	return nil
}

type TimelineKey struct {
	ID     string  `xml:"id,attr"`
	Time   int     `xml:"time,attr"`
	Spin   *int    `xml:"spin,attr"`
	Bone   *Sample `xml:"bone"`
	Object *Sample `xml:"object"`
}

// SpinValue returns the spin attribute, which defaults to 1.
func (k *TimelineKey) SpinValue() int {
	if k.Spin == nil {
		return 1
	}
	return *k.Spin
}

// Sample holds the values of a bone or object key. Folder and File are only
// set for objects.
type Sample struct {
	Folder string   `xml:"folder,attr"`
	File   string   `xml:"file,attr"`
	X      float64  `xml:"x,attr"`
	Y      float64  `xml:"y,attr"`
	Angle  float64  `xml:"angle,attr"`
	ScaleX *float64 `xml:"scale_x,attr"`
	ScaleY *float64 `xml:"scale_y,attr"`
	PivotX *float64 `xml:"pivot_x,attr"`
	PivotY *float64 `xml:"pivot_y,attr"`
	Alpha  *float64 `xml:"a,attr"`
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
