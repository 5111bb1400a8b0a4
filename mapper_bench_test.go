package mapper

import (
	"testing"

	"github.com/aarondl/null/v8"
)

// Benchmark structs
type BenchSource struct {
	ID          int
	Name        string
	Email       string
	Age         int
	Address     string
	City        string
	Active      bool
	Score       float64
	Description string
}

type BenchDest struct {
	ID          int64
	Name        string
	Email       string
	Age         string
	Address     string
	City        string
	Active      bool
	Score       float32
	Description null.String
}

type BenchDestWithAdditional struct {
	ID             int
	Name           string
	AdditionalData null.JSON
}

func benchSource() *BenchSource {
	return &BenchSource{
		ID: 1, Name: "Ann", Email: "ann@example.com", Age: 41, Address: "1 Main St",
		City: "Leeds", Active: true, Score: 9.5, Description: "regular",
	}
}

func BenchmarkCopy_SameType(b *testing.B) {
	src := benchSource()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Copy(src).To(&BenchSource{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCopy_Converting(b *testing.B) {
	src := benchSource()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Copy(src).To(&BenchDest{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCopy_AdditionalData(b *testing.B) {
	src := benchSource()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Copy(src).To(&BenchDestWithAdditional{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeepCopy_Nested(b *testing.B) {
	src := samplePerson()
	src.Friends = []*Person{samplePerson(), samplePerson()}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := MapTo[Person](DeepCopy(src)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMap_Keyword(b *testing.B) {
	src := map[string]any{"user_name": "ann", "email_address": "a@b.c", "age": "42"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := MapTo[UserRecord](Map(src)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFlatCopy(b *testing.B) {
	src := samplePerson()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := FlatCopy(src).To(map[string]any{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConvert_Product(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Convert("10*60").ToInt(); err != nil {
			b.Fatal(err)
		}
	}
}
