package ecs

import "reflect"

// EntityID 是实体的唯一标识符
type EntityID uint64

// EntityManager 管理所有实体和组件
//
// 宠物场景中的实体很少（宠物本体，以及未来可能的点击涟漪等效果实体），
// 但仍然沿用组件化结构：系统只依赖组件组合，不依赖具体实体。
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]interface{})
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		delete(em.components, id)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
}

// GetComponent 获取实体的特定类型组件（泛型版本）
//
// 类型参数 T 必须是组件的指针类型，如 *components.TransformComponent
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	compMap, exists := em.components[id]
	if !exists {
		return zero, false
	}
	comp, found := compMap[reflect.TypeOf(zero)]
	if !found {
		return zero, false
	}
	return comp.(T), true
}

// GetEntitiesWith1 查询拥有指定组件类型的所有实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	var z1 T1
	t1 := reflect.TypeOf(z1)

	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		if _, found := compMap[t1]; found {
			result = append(result, id)
		}
	}
	return result
}

// GetEntitiesWith2 查询同时拥有两种组件类型的所有实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	var z1 T1
	var z2 T2
	t1 := reflect.TypeOf(z1)
	t2 := reflect.TypeOf(z2)

	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		if _, found := compMap[t1]; !found {
			continue
		}
		if _, found := compMap[t2]; !found {
			continue
		}
		result = append(result, id)
	}
	return result
}
