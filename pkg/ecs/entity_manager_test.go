package ecs

import (
	"testing"
)

type posComponent struct{ X, Y float64 }

type tagComponent struct{ Name string }

// TestCreateEntityUniqueIDs 测试实体ID唯一且从1开始
func TestCreateEntityUniqueIDs(t *testing.T) {
	em := NewEntityManager()

	a := em.CreateEntity()
	b := em.CreateEntity()

	if a == 0 {
		t.Error("first entity ID must not be 0")
	}
	if a == b {
		t.Errorf("entity IDs must be unique, got %d twice", a)
	}
}

// TestAddAndGetComponent 测试组件添加与泛型读取
func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &posComponent{X: 3, Y: 4})

	pos, ok := GetComponent[*posComponent](em, id)
	if !ok {
		t.Fatal("GetComponent: got ok=false, want true")
	}
	if pos.X != 3 || pos.Y != 4 {
		t.Errorf("component: got (%v, %v), want (3, 4)", pos.X, pos.Y)
	}

	// 未添加的组件类型
	if _, ok := GetComponent[*tagComponent](em, id); ok {
		t.Error("GetComponent for absent type: got ok=true, want false")
	}

	// 不存在的实体
	if _, ok := GetComponent[*posComponent](em, EntityID(999)); ok {
		t.Error("GetComponent for absent entity: got ok=true, want false")
	}
}

// TestGetEntitiesWithQueries 测试组件组合查询
func TestGetEntitiesWithQueries(t *testing.T) {
	em := NewEntityManager()

	a := em.CreateEntity()
	em.AddComponent(a, &posComponent{})
	em.AddComponent(a, &tagComponent{Name: "pet"})

	b := em.CreateEntity()
	em.AddComponent(b, &posComponent{})

	if got := len(GetEntitiesWith1[*posComponent](em)); got != 2 {
		t.Errorf("GetEntitiesWith1: got %d entities, want 2", got)
	}

	both := GetEntitiesWith2[*posComponent, *tagComponent](em)
	if len(both) != 1 || both[0] != a {
		t.Errorf("GetEntitiesWith2: got %v, want [%d]", both, a)
	}
}

// TestDestroyEntityDeferred 测试删除延迟到 RemoveMarkedEntities
func TestDestroyEntityDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &posComponent{})

	em.DestroyEntity(id)
	// 标记后组件仍可读（帧内安全）
	if _, ok := GetComponent[*posComponent](em, id); !ok {
		t.Error("component must stay readable until cleanup")
	}

	em.RemoveMarkedEntities()
	if _, ok := GetComponent[*posComponent](em, id); ok {
		t.Error("component still present after RemoveMarkedEntities")
	}
}
